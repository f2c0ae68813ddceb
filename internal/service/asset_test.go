package service_test

import (
	"bytes"
	"context"
	"reflect"

	"github.com/brandworks/asset-qc/internal/service"
	"github.com/brandworks/asset-qc/internal/service/mappers"
	"github.com/brandworks/asset-qc/internal/store"
	"github.com/brandworks/asset-qc/internal/workflow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var _ = Describe("asset service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.AssetService
		qc     *service.QCService
	)

	BeforeAll(func() {
		db, err := store.InitDB(newTestConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		srv = service.NewAssetService(s)
		qc = service.NewQCService(s, workflow.NewMachine(), nil)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM asset_qc_reviews;")
		gormdb.Exec("DELETE FROM assets;")
	})

	Context("create and get", func() {
		It("creates an asset in stage Add", func() {
			asset, err := srv.CreateAsset(context.TODO(), mappers.AssetCreateForm{Title: "launch video", AssetType: "video", CreatedBy: 8})
			Expect(err).To(BeNil())
			Expect(asset.ID).NotTo(BeZero())
			Expect(asset.WorkflowStage).To(Equal(workflow.StageAdd))
			Expect(asset.QCStatus).To(Equal(workflow.StatusPending))

			got, err := srv.GetAsset(context.TODO(), asset.ID)
			Expect(err).To(BeNil())
			Expect(got.Title).To(Equal("launch video"))
			Expect(*got.CreatedBy).To(BeEquivalentTo(8))
		})

		It("returns not found for unknown assets", func() {
			_, err := srv.GetAsset(context.TODO(), 31337)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrResourceNotFound{})))
		})
	})

	Context("list", func() {
		BeforeEach(func() {
			for _, title := range []string{"a", "b", "c"} {
				_, err := srv.CreateAsset(context.TODO(), mappers.AssetCreateForm{Title: title, CreatedBy: 1})
				Expect(err).To(BeNil())
			}
			_, err := srv.CreateAsset(context.TODO(), mappers.AssetCreateForm{Title: "d", CreatedBy: 2})
			Expect(err).To(BeNil())
		})

		It("lists every asset ordered by id", func() {
			assets, err := srv.ListAssets(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(assets).To(HaveLen(4))
			Expect(assets[0].Title).To(Equal("a"))
			Expect(assets[3].Title).To(Equal("d"))
		})

		It("filters by creator and paginates", func() {
			assets, err := srv.ListAssets(context.TODO(), service.NewAssetFilter().WithCreatedBy(1).WithLimit(2).WithOffset(1))
			Expect(err).To(BeNil())
			Expect(assets).To(HaveLen(2))
			Expect(assets[0].Title).To(Equal("b"))
		})

		It("filters by workflow state", func() {
			assets, err := srv.ListAssets(context.TODO(), nil)
			Expect(err).To(BeNil())
			_, err = qc.SubmitForReview(context.TODO(), assets[1].ID, 1)
			Expect(err).To(BeNil())
			_, err = qc.ReviewAsset(context.TODO(), assets[1].ID, "approved", service.ReviewContext{ReviewerID: 1, CallerRole: workflow.RoleAdmin})
			Expect(err).To(BeNil())

			published, err := srv.ListAssets(context.TODO(), service.NewAssetFilter().WithStage(workflow.StagePublished).WithLinkingActive(true))
			Expect(err).To(BeNil())
			Expect(published).To(HaveLen(1))
			Expect(published[0].Title).To(Equal("b"))

			pending, err := srv.ListAssets(context.TODO(), service.NewAssetFilter().WithStatus(workflow.StatusPending))
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(3))
		})
	})

	Context("review history", func() {
		var assetID uint

		BeforeEach(func() {
			asset, err := srv.CreateAsset(context.TODO(), mappers.AssetCreateForm{Title: "hero image", CreatedBy: 1})
			Expect(err).To(BeNil())
			assetID = asset.ID

			rc := service.ReviewContext{ReviewerID: 4, CallerRole: workflow.RoleAdmin}
			_, err = qc.ReviewAsset(context.TODO(), assetID, "rework", rc)
			Expect(err).To(BeNil())
			rc.Score = intPtr(95)
			_, err = qc.ReviewAsset(context.TODO(), assetID, "approved", rc)
			Expect(err).To(BeNil())
		})

		It("lists reviews newest first", func() {
			reviews, err := srv.ListReviews(context.TODO(), assetID)
			Expect(err).To(BeNil())
			Expect(reviews).To(HaveLen(2))
			Expect(reviews[0].Decision).To(Equal(workflow.DecisionApproved))
			Expect(reviews[1].Decision).To(Equal(workflow.DecisionRework))
		})

		It("returns not found for unknown assets", func() {
			_, err := srv.ListReviews(context.TODO(), assetID+100)
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrResourceNotFound{})))
		})

		It("exports the history as csv", func() {
			report, err := srv.ExportReviews(context.TODO(), assetID, service.ReportFormatCSV)
			Expect(err).To(BeNil())
			Expect(report.ContentType).To(Equal("text/csv"))
			Expect(report.Filename).To(HaveSuffix(".csv"))
			Expect(string(report.Content)).To(ContainSubstring("hero image"))
			Expect(string(report.Content)).To(ContainSubstring("Average Score,95.0"))
		})

		It("exports the history as xlsx", func() {
			report, err := srv.ExportReviews(context.TODO(), assetID, service.ReportFormatXLSX)
			Expect(err).To(BeNil())
			Expect(report.Filename).To(HaveSuffix(".xlsx"))

			f, err := excelize.OpenReader(bytes.NewReader(report.Content))
			Expect(err).To(BeNil())
			defer f.Close()

			rows, err := f.GetRows("Reviews")
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(3))
		})

		It("rejects unknown formats", func() {
			_, err := srv.ExportReviews(context.TODO(), assetID, "pdf")
			Expect(reflect.TypeOf(err)).To(Equal(reflect.TypeOf(&service.ErrUnsupportedFormat{})))
		})
	})
})
