package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/versedeck/internal/adapters/secondary/config"
	"github.com/fredcamaral/versedeck/internal/domain/ports"
	"github.com/fredcamaral/versedeck/internal/domain/services"
)

var configForce bool

// configCmd groups configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Long: `Write the default configuration, including the role slot layout of
the standard template, to the global config file or to path.

Example:
  versedeck config init
  versedeck config init ./versedeck.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader := config.NewTOMLLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewTOMLLoaderWithPath(path)
	}

	path := loader.GetGlobalPath()
	if len(args) == 1 {
		path = args[0]
	}

	if ports.NewRealFileSystem().Exists(path) && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	svc := services.NewConfigService(loader, config.NewConfigMerger())
	path, err := svc.InitFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
