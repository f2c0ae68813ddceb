package service_test

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/brandworks/asset-qc/internal/events"
	"github.com/brandworks/asset-qc/internal/service"
	"github.com/brandworks/asset-qc/internal/service/mappers"
	"github.com/brandworks/asset-qc/internal/store"
	"github.com/brandworks/asset-qc/internal/workflow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const insertAssetStm = "INSERT INTO assets (title, workflow_stage, qc_status, linking_active, rework_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);"

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

var _ = Describe("qc service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(newTestConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM asset_qc_reviews;")
		gormdb.Exec("DELETE FROM assets;")
	})

	insertAsset := func(stage workflow.Stage, status workflow.Status, linking bool, reworks int) uint {
		Expect(gormdb.Exec(insertAssetStm, "banner", string(stage), string(status), linking, reworks).Error).To(BeNil())
		var id uint
		Expect(gormdb.Raw("SELECT MAX(id) FROM assets").Scan(&id).Error).To(BeNil())
		return id
	}

	countReviews := func(assetID uint) int64 {
		count, err := s.Review().Count(context.TODO(), store.NewReviewQueryFilter().ByAssetID(assetID))
		Expect(err).To(BeNil())
		return count
	}

	admin := func(reviewerID uint) service.ReviewContext {
		return service.ReviewContext{ReviewerID: reviewerID, CallerRole: workflow.RoleAdmin}
	}

	Context("review", func() {
		It("approves and publishes an asset sent to qc", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			rc := admin(7)
			rc.Score = intPtr(92)
			rc.Remarks = strPtr("looks great")

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			asset, err := srv.ReviewAsset(context.TODO(), id, "approved", rc)
			Expect(err).To(BeNil())
			Expect(asset.WorkflowStage).To(Equal(workflow.StagePublished))
			Expect(asset.QCStatus).To(Equal(workflow.StatusApproved))
			Expect(asset.LinkingActive).To(BeTrue())
			Expect(*asset.QCScore).To(Equal(92))
			Expect(*asset.QCReviewerID).To(BeEquivalentTo(7))
			Expect(asset.QCReviewedAt).NotTo(BeNil())

			stored, err := s.Asset().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(stored.WorkflowStage).To(Equal(workflow.StagePublished))
			Expect(*stored.QCRemarks).To(Equal("looks great"))

			reviews, err := s.Review().List(context.TODO(), store.NewReviewQueryFilter().ByAssetID(id))
			Expect(err).To(BeNil())
			Expect(reviews).To(HaveLen(1))
			Expect(reviews[0].Decision).To(Equal(workflow.DecisionApproved))
			Expect(reviews[0].ReviewerID).To(BeEquivalentTo(7))
			Expect(*reviews[0].Score).To(Equal(92))
		})

		It("lands in Approved when the machine does not publish", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			srv := service.NewQCService(s, workflow.NewMachine(workflow.WithApprovedStage(workflow.StageApproved)), nil)
			asset, err := srv.ReviewAsset(context.TODO(), id, "approved", admin(1))
			Expect(err).To(BeNil())
			Expect(asset.WorkflowStage).To(Equal(workflow.StageApproved))
			Expect(asset.LinkingActive).To(BeTrue())
		})

		It("rejects and deactivates linking", func() {
			id := insertAsset(workflow.StagePublished, workflow.StatusApproved, true, 0)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			asset, err := srv.ReviewAsset(context.TODO(), id, "REJECTED", admin(1))
			Expect(err).To(BeNil())
			Expect(asset.WorkflowStage).To(Equal(workflow.StagePublished))
			Expect(asset.QCStatus).To(Equal(workflow.StatusRejected))
			Expect(asset.LinkingActive).To(BeFalse())
		})

		It("sends the asset to rework and counts it", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 1)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			asset, err := srv.ReviewAsset(context.TODO(), id, "rework", admin(1))
			Expect(err).To(BeNil())
			Expect(asset.WorkflowStage).To(Equal(workflow.StageRework))
			Expect(asset.QCStatus).To(Equal(workflow.StatusRework))
			Expect(asset.ReworkCount).To(Equal(2))
			Expect(asset.LinkingActive).To(BeFalse())
		})

		It("stores the checklist with the review", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			items := []mappers.ChecklistItem{{Item: "logo", Checked: true}, {Item: "copy", Checked: false}}
			rc := admin(3)
			rc.ChecklistItems = mappers.ChecklistToJSON(items)
			rc.ChecklistCompletion = mappers.ChecklistCompletion(items)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), id, "rework", rc)
			Expect(err).To(BeNil())

			reviews, err := s.Review().List(context.TODO(), store.NewReviewQueryFilter().ByAssetID(id))
			Expect(err).To(BeNil())
			Expect(reviews).To(HaveLen(1))
			Expect(*reviews[0].ChecklistCompletion).To(Equal(50))

			var stored []mappers.ChecklistItem
			Expect(json.Unmarshal(reviews[0].ChecklistItems, &stored)).To(Succeed())
			Expect(stored).To(Equal(items))
		})

		It("emits a reviewed event after commit", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			writer := newTestWriter()
			producer := events.NewEventProducer(writer)
			defer producer.Close()

			rc := admin(5)
			rc.Score = intPtr(80)
			srv := service.NewQCService(s, workflow.NewMachine(), producer)
			_, err := srv.ReviewAsset(context.TODO(), id, "approved", rc)
			Expect(err).To(BeNil())

			Eventually(writer.Types).Should(Equal([]string{events.AssetReviewedKind}))

			var e events.AssetQCEvent
			Expect(json.Unmarshal(writer.Last().Data(), &e)).To(Succeed())
			Expect(e.AssetID).To(Equal(id))
			Expect(e.ActorID).To(BeEquivalentTo(5))
			Expect(e.Decision).To(Equal("approved"))
			Expect(*e.Score).To(Equal(80))
			Expect(e.LinkingActive).To(BeTrue())
		})
	})

	Context("review failures", func() {
		It("forbids non admin callers and writes nothing", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), id, "approved", service.ReviewContext{ReviewerID: 2, CallerRole: workflow.RoleUser})
			Expect(err).NotTo(BeNil())
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrForbidden{})))

			stored, err := s.Asset().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(stored.WorkflowStage).To(Equal(workflow.StageSentToQC))
			Expect(stored.QCStatus).To(Equal(workflow.StatusPending))
			Expect(countReviews(id)).To(BeZero())
		})

		It("checks the role before the decision", func() {
			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), 999, "maybe", service.ReviewContext{CallerRole: workflow.RoleUser})
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrForbidden{})))
		})

		It("rejects unknown decisions", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), id, "approve", admin(1))
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrInvalidDecision{})))
			Expect(countReviews(id)).To(BeZero())
		})

		It("rejects scores out of range", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			rc := admin(1)
			rc.Score = intPtr(150)
			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), id, "approved", rc)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrInvalidScore{})))

			stored, err := s.Asset().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(stored.QCStatus).To(Equal(workflow.StatusPending))
			Expect(countReviews(id)).To(BeZero())
		})

		It("rejects a malformed checklist", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			rc := admin(1)
			rc.ChecklistItems = []byte(`{"item": "logo"}`)
			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), id, "approved", rc)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrInvalidChecklist{})))

			rc.ChecklistItems = nil
			rc.ChecklistCompletion = intPtr(101)
			_, err = srv.ReviewAsset(context.TODO(), id, "approved", rc)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrInvalidChecklist{})))
		})

		It("returns not found for unknown assets", func() {
			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.ReviewAsset(context.TODO(), 4242, "approved", admin(1))
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrResourceNotFound{})))
		})

		It("rolls back the asset update when the review cannot be recorded", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			writer := newTestWriter()
			producer := events.NewEventProducer(writer)
			defer producer.Close()

			srv := service.NewQCService(&brokenReviewStore{Store: s}, workflow.NewMachine(), producer)
			_, err := srv.ReviewAsset(context.TODO(), id, "approved", admin(1))
			Expect(err).NotTo(BeNil())
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrPersistenceFailure{})))
			Expect(err.Error()).To(ContainSubstring("disk I/O error"))

			stored, err := s.Asset().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(stored.WorkflowStage).To(Equal(workflow.StageSentToQC))
			Expect(stored.QCStatus).To(Equal(workflow.StatusPending))
			Expect(stored.LinkingActive).To(BeFalse())
			Expect(stored.QCReviewerID).To(BeNil())
			Expect(countReviews(id)).To(BeZero())
			Consistently(writer.Types).Should(BeEmpty())
		})
	})

	Context("submit", func() {
		It("sends the asset to qc with a pending status", func() {
			id := insertAsset(workflow.StageRework, workflow.StatusRework, false, 2)

			writer := newTestWriter()
			producer := events.NewEventProducer(writer)
			defer producer.Close()

			srv := service.NewQCService(s, workflow.NewMachine(), producer)
			asset, err := srv.SubmitForReview(context.TODO(), id, 11)
			Expect(err).To(BeNil())
			Expect(asset.WorkflowStage).To(Equal(workflow.StageSentToQC))
			Expect(asset.QCStatus).To(Equal(workflow.StatusPending))
			Expect(asset.ReworkCount).To(Equal(2))
			Expect(*asset.SubmittedBy).To(BeEquivalentTo(11))
			Expect(asset.SubmittedAt).NotTo(BeNil())

			Eventually(writer.Types).Should(Equal([]string{events.AssetSubmittedKind}))
		})

		It("resets a previous decision", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusRejected, false, 0)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			asset, err := srv.SubmitForReview(context.TODO(), id, 1)
			Expect(err).To(BeNil())
			Expect(asset.QCStatus).To(Equal(workflow.StatusPending))
		})

		It("returns not found for unknown assets", func() {
			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.SubmitForReview(context.TODO(), 4242, 1)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrResourceNotFound{})))
		})
	})

	Context("start work", func() {
		It("moves a reworked asset into progress", func() {
			id := insertAsset(workflow.StageRework, workflow.StatusRework, false, 1)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			asset, err := srv.StartWork(context.TODO(), id, 3)
			Expect(err).To(BeNil())
			Expect(asset.WorkflowStage).To(Equal(workflow.StageInProgress))
			Expect(asset.QCStatus).To(Equal(workflow.StatusRework))
		})

		It("refuses assets waiting for qc", func() {
			id := insertAsset(workflow.StageSentToQC, workflow.StatusPending, false, 0)

			srv := service.NewQCService(s, workflow.NewMachine(), nil)
			_, err := srv.StartWork(context.TODO(), id, 3)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrInvalidTransition{})))

			stored, err := s.Asset().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(stored.WorkflowStage).To(Equal(workflow.StageSentToQC))
		})
	})
})
