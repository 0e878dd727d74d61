// Package pipeline runs erosion and hydrology stages over a height field in
// an explicit, validated order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"terrasim/internal/core"
	"terrasim/internal/ctxlog"
	"terrasim/internal/hydrology"
)

// ErrInvalidField reports a missing field or one whose buffer does not match
// its dimensions.
var ErrInvalidField = errors.New("invalid height field")

// Report describes a completed stage.
type Report struct {
	Index    int
	Kind     Kind
	Duration time.Duration
	Attrs    []slog.Attr
}

// Artifacts are the outputs of a run. They are not touched again by the
// orchestrator once returned.
type Artifacts struct {
	Size core.Size
	// Heights is a copy of the terrain after the last stage.
	Heights []float32
	// Routing is the filled surface flow was computed on, nil without a fill stage.
	Routing []float32
	Raised  []bool

	Flow   *hydrology.FlowField
	Rivers []hydrology.River
	Lakes  []hydrology.Lake

	Reports []Report
}

// Orchestrator executes plans.
type Orchestrator struct {
	// OnStage, when set, is called after every completed stage.
	OnStage func(Report)
}

// New returns an Orchestrator with no stage callback.
func New() *Orchestrator {
	return &Orchestrator{}
}

// Run validates plan and executes its stages in order against field, which
// erosion stages mutate in place. Cancellation is checked between stages; a
// stage that has started always runs to completion.
func (o *Orchestrator) Run(ctx context.Context, field *core.HeightField, plan Plan) (*Artifacts, error) {
	logger := ctxlog.FromContext(ctx)

	if field == nil || field.W <= 0 || field.H <= 0 || len(field.Cells()) != field.W*field.H {
		return nil, ErrInvalidField
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	logger.Debug("Pipeline started.", "width", field.W, "height", field.H, "stages", len(plan.Stages))

	st := &runState{field: field}
	reports := make([]Report, 0, len(plan.Stages))

	for i, s := range plan.Stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, s.Kind, err)
		}

		start := time.Now()
		attrs := runners[s.Kind](st, s)
		rep := Report{Index: i, Kind: s.Kind, Duration: time.Since(start), Attrs: attrs}
		reports = append(reports, rep)

		logAttrs := append([]slog.Attr{
			slog.Int("index", i),
			slog.String("kind", string(s.Kind)),
			slog.Duration("duration", rep.Duration),
		}, attrs...)
		logger.LogAttrs(ctx, slog.LevelInfo, "Stage complete.", logAttrs...)

		if o.OnStage != nil {
			o.OnStage(rep)
		}
	}

	art := &Artifacts{
		Size:    core.Size{W: field.W, H: field.H},
		Heights: field.Snapshot(),
		Flow:    st.flow,
		Rivers:  st.rivers,
		Lakes:   st.lakes,
		Reports: reports,
	}
	if st.fill != nil {
		art.Routing = st.fill.Heights
		art.Raised = st.fill.Raised
	}
	logger.Debug("Pipeline finished.", "rivers", len(art.Rivers), "lakes", len(art.Lakes))
	return art, nil
}
