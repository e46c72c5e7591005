package ports

import (
	"context"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

// PlanRenderer renders a slide plan for proofreading
type PlanRenderer interface {
	Render(ctx context.Context, plan *entities.Plan) ([]byte, error)
}
