package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/brandworks/asset-qc/internal/events"
	"github.com/brandworks/asset-qc/internal/service/mappers"
	"github.com/brandworks/asset-qc/internal/store"
	"github.com/brandworks/asset-qc/internal/store/model"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/brandworks/asset-qc/pkg/log"
	"github.com/brandworks/asset-qc/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

const tracerName = "github.com/brandworks/asset-qc/internal/service"

// EventWriter receives asset.qc.* events once a transition is committed.
type EventWriter interface {
	Write(ctx context.Context, kind string, body io.Reader) error
}

// ReviewContext carries everything about a review except the decision itself.
// CallerRole must be the verified role of the caller.
type ReviewContext struct {
	ReviewerID          uint
	CallerRole          workflow.Role
	Score               *int
	Remarks             *string
	ChecklistCompletion *int
	ChecklistItems      datatypes.JSON
}

type QCService struct {
	store   store.Store
	machine *workflow.Machine
	events  EventWriter
	logger  *log.StructuredLogger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewQCService returns the workflow engine. A nil EventWriter disables events.
func NewQCService(s store.Store, machine *workflow.Machine, w EventWriter) *QCService {
	if machine == nil {
		machine = workflow.NewMachine()
	}
	return &QCService{
		store:   s,
		machine: machine,
		events:  w,
		logger:  log.NewDebugLogger("qc_service"),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
}

// ReviewAsset records a QC decision. Every check runs before anything is written; the
// asset update and the review record are committed together or not at all.
func (qs *QCService) ReviewAsset(ctx context.Context, assetID uint, decision string, rc ReviewContext) (*model.Asset, error) {
	ctx, span := qs.tracer.Start(ctx, "qc.review_asset", trace.WithAttributes(
		attribute.Int64("asset.id", int64(assetID)),
		attribute.String("qc.decision", decision),
	))
	defer span.End()

	tracer := qs.logger.WithContext(ctx).Operation("review_asset").
		WithUint("asset_id", assetID).
		WithString("decision", decision).
		WithUint("reviewer_id", rc.ReviewerID).
		WithString("role", string(rc.CallerRole)).
		Build()

	if guard := workflow.CanReview(rc.CallerRole); !guard.Allowed {
		return nil, qs.fail(span, tracer, metrics.ReasonForbidden, NewErrForbidden(guard.Reason))
	}

	d, err := workflow.ParseDecision(decision)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonInvalidDecision, NewErrInvalidDecision(decision))
	}

	if err := workflow.ValidateScore(rc.Score); err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonInvalidScore, NewErrInvalidScore(*rc.Score))
	}

	if err := validateChecklist(rc); err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonInvalidChecklist, err)
	}
	tracer.Step("validated").Log()

	ctx, err = qs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("review", assetID, err))
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	asset, err := qs.store.Asset().Get(ctx, assetID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, qs.fail(span, tracer, metrics.ReasonNotFound, NewErrAssetNotFound(assetID))
		}
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("review", assetID, err))
	}
	tracer.Step("asset_loaded").
		WithString("stage", string(asset.WorkflowStage)).
		WithString("qc_status", string(asset.QCStatus)).
		Log()

	next, err := qs.machine.Review(asset.WorkflowState(), d)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonInvalidDecision, NewErrInvalidDecision(decision))
	}

	reviewedAt := qs.now()
	reviewerID := rc.ReviewerID
	asset.ApplyWorkflowState(next)
	asset.QCScore = rc.Score
	asset.QCRemarks = rc.Remarks
	asset.QCReviewerID = &reviewerID
	asset.QCReviewedAt = &reviewedAt

	updated, err := qs.store.Asset().Update(ctx, *asset)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("review", assetID, err))
	}

	review := model.Review{
		AssetID:             assetID,
		ReviewerID:          rc.ReviewerID,
		Decision:            d,
		Score:               rc.Score,
		Remarks:             rc.Remarks,
		ChecklistCompletion: rc.ChecklistCompletion,
		ChecklistItems:      rc.ChecklistItems,
	}
	if _, err := qs.store.Review().Append(ctx, review); err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("review", assetID, err))
	}
	tracer.Step("review_recorded").Log()

	if _, err := store.Commit(ctx); err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("review", assetID, err))
	}

	metrics.IncreaseDecisionsTotalMetric(string(d))
	metrics.UniqueReviewersPerWeek.Add(rc.ReviewerID)
	qs.emit(ctx, tracer, events.AssetReviewedKind, mappers.AssetQCEventFromModel(*updated, rc.ReviewerID, string(d), reviewedAt))

	span.SetAttributes(
		attribute.String("qc.stage", string(updated.WorkflowStage)),
		attribute.Bool("qc.linking_active", updated.LinkingActive),
	)
	tracer.Success().
		WithString("stage", string(updated.WorkflowStage)).
		WithString("qc_status", string(updated.QCStatus)).
		WithBool("linking_active", updated.LinkingActive).
		WithInt("rework_count", updated.ReworkCount).
		Log()

	return updated, nil
}

// SubmitForReview sends the asset to QC. Anyone may submit, and every submission waits
// for a fresh decision.
func (qs *QCService) SubmitForReview(ctx context.Context, assetID uint, submittedBy uint) (*model.Asset, error) {
	ctx, span := qs.tracer.Start(ctx, "qc.submit_for_review", trace.WithAttributes(attribute.Int64("asset.id", int64(assetID))))
	defer span.End()

	tracer := qs.logger.WithContext(ctx).Operation("submit_for_review").
		WithUint("asset_id", assetID).
		WithUint("submitted_by", submittedBy).
		Build()

	ctx, err := qs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("submit", assetID, err))
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	asset, err := qs.store.Asset().Get(ctx, assetID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, qs.fail(span, tracer, metrics.ReasonNotFound, NewErrAssetNotFound(assetID))
		}
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("submit", assetID, err))
	}
	tracer.Step("asset_loaded").WithString("stage", string(asset.WorkflowStage)).Log()

	submittedAt := qs.now()
	asset.ApplyWorkflowState(qs.machine.Submit(asset.WorkflowState()))
	asset.SubmittedBy = &submittedBy
	asset.SubmittedAt = &submittedAt

	updated, err := qs.store.Asset().Update(ctx, *asset)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("submit", assetID, err))
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("submit", assetID, err))
	}

	metrics.IncreaseSubmissionsTotalMetric()
	qs.emit(ctx, tracer, events.AssetSubmittedKind, mappers.AssetQCEventFromModel(*updated, submittedBy, "", submittedAt))

	tracer.Success().WithString("stage", string(updated.WorkflowStage)).Log()
	return updated, nil
}

// StartWork moves a new or reworked asset into production.
func (qs *QCService) StartWork(ctx context.Context, assetID uint, userID uint) (*model.Asset, error) {
	ctx, span := qs.tracer.Start(ctx, "qc.start_work", trace.WithAttributes(attribute.Int64("asset.id", int64(assetID))))
	defer span.End()

	tracer := qs.logger.WithContext(ctx).Operation("start_work").
		WithUint("asset_id", assetID).
		WithUint("user_id", userID).
		Build()

	ctx, err := qs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("start work on", assetID, err))
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	asset, err := qs.store.Asset().Get(ctx, assetID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, qs.fail(span, tracer, metrics.ReasonNotFound, NewErrAssetNotFound(assetID))
		}
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("start work on", assetID, err))
	}

	next, err := qs.machine.StartWork(asset.WorkflowState())
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonInvalidTransition, NewErrInvalidTransition(assetID, err.Error()))
	}
	asset.ApplyWorkflowState(next)

	updated, err := qs.store.Asset().Update(ctx, *asset)
	if err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("start work on", assetID, err))
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, qs.fail(span, tracer, metrics.ReasonPersistence, NewErrPersistenceFailure("start work on", assetID, err))
	}

	metrics.IncreaseWorkStartedTotalMetric()
	qs.emit(ctx, tracer, events.AssetWorkStartedKind, mappers.AssetQCEventFromModel(*updated, userID, "", qs.now()))

	tracer.Success().Log()
	return updated, nil
}

func (qs *QCService) fail(span trace.Span, tracer *log.OperationTracer, reason string, err error) error {
	metrics.IncreaseReviewFailuresTotalMetric(reason)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	tracer.Error(err).WithString("reason", reason).Log()
	return err
}

// emit never fails the call: the transition is already committed.
func (qs *QCService) emit(ctx context.Context, tracer *log.OperationTracer, kind string, e events.AssetQCEvent) {
	if qs.events == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		tracer.Error(err).WithString("event", kind).Log()
		return
	}
	if err := qs.events.Write(ctx, kind, bytes.NewReader(data)); err != nil {
		tracer.Error(err).WithString("event", kind).Log()
		return
	}
	tracer.Step("event_emitted").WithString("event", kind).Log()
}

func validateChecklist(rc ReviewContext) error {
	if c := rc.ChecklistCompletion; c != nil && (*c < workflow.MinScore || *c > workflow.MaxScore) {
		return NewErrInvalidChecklist("completion must be between 0 and 100")
	}
	if len(rc.ChecklistItems) > 0 {
		var items []mappers.ChecklistItem
		if err := json.Unmarshal(rc.ChecklistItems, &items); err != nil {
			return NewErrInvalidChecklist("items must be a list of {item, checked}")
		}
		for _, i := range items {
			if strings.TrimSpace(i.Item) == "" {
				return NewErrInvalidChecklist("every item needs a label")
			}
		}
	}
	return nil
}
