package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

var _ = Describe("qc handler", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		router http.Handler
		id     uint
	)

	BeforeAll(func() {
		db, err := store.InitDB(newTestConfig())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())
		router = newRouter(s)
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		Expect(gormdb.Exec(insertAssetStm, "promo", "SentToQC", "Pending", false, 0, 1).Error).To(BeNil())
		Expect(gormdb.Raw("SELECT MAX(id) FROM assets").Scan(&id).Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM asset_qc_reviews;")
		gormdb.Exec("DELETE FROM assets;")
	})

	reviewPath := func() string { return "/api/v1/assets/" + itoa(id) + "/qc-review" }

	decodeAsset := func(b []byte) v1alpha1.Asset {
		var a v1alpha1.Asset
		Expect(json.Unmarshal(b, &a)).To(Succeed())
		return a
	}

	Context("review", func() {
		It("approves an asset", func() {
			rec := do(router, call{
				method:  http.MethodPost,
				path:    reviewPath(),
				body:    v1alpha1.QCReviewRequest{QcDecision: "approved", QcScore: intPtr(90), QcRemarks: strPtr("ok")},
				headers: map[string]string{auth.UserIDHeader: "7"},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			asset := decodeAsset(rec.Body.Bytes())
			Expect(asset.WorkflowStage).To(Equal("Published"))
			Expect(asset.QcStatus).To(Equal("Approved"))
			Expect(asset.LinkingActive).To(BeTrue())
			Expect(*asset.QcScore).To(Equal(90))
			Expect(*asset.QcReviewerId).To(BeEquivalentTo(7))
		})

		It("sends an asset to rework through the legacy route", func() {
			rec := do(router, call{
				method: http.MethodPost,
				path:   "/api/assets/" + itoa(id) + "/qc-review",
				body:   v1alpha1.QCReviewRequest{QcDecision: "rework"},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			asset := decodeAsset(rec.Body.Bytes())
			Expect(asset.WorkflowStage).To(Equal("Rework"))
			Expect(asset.ReworkCount).To(Equal(1))
		})

		It("returns 403 for non admin callers", func() {
			rec := do(router, call{
				method:  http.MethodPost,
				path:    reviewPath(),
				body:    v1alpha1.QCReviewRequest{QcDecision: "approved"},
				headers: map[string]string{auth.RoleHeader: "user"},
			})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("lets the body role lower privileges", func() {
			rec := do(router, call{
				method: http.MethodPost,
				path:   reviewPath(),
				body:   v1alpha1.QCReviewRequest{QcDecision: "approved", UserRole: strPtr("user")},
			})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("does not let the body role raise privileges", func() {
			rec := do(router, call{
				method:  http.MethodPost,
				path:    reviewPath(),
				body:    v1alpha1.QCReviewRequest{QcDecision: "approved", UserRole: strPtr("Admin")},
				headers: map[string]string{auth.RoleHeader: "user"},
			})
			Expect(rec.Code).To(Equal(http.StatusForbidden))

			count, err := s.Review().Count(context.TODO(), store.NewReviewQueryFilter().ByAssetID(id))
			Expect(err).To(BeNil())
			Expect(count).To(BeZero())
		})

		It("returns 400 for an unknown decision", func() {
			rec := do(router, call{method: http.MethodPost, path: reviewPath(), body: v1alpha1.QCReviewRequest{QcDecision: "approve"}})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for a score out of range", func() {
			rec := do(router, call{method: http.MethodPost, path: reviewPath(), body: v1alpha1.QCReviewRequest{QcDecision: "approved", QcScore: intPtr(150)}})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(rec).Message).To(ContainSubstring("150"))
		})

		It("returns 404 for unknown assets", func() {
			rec := do(router, call{method: http.MethodPost, path: "/api/v1/assets/9999/qc-review", body: v1alpha1.QCReviewRequest{QcDecision: "approved"}})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("computes the checklist completion when it is missing", func() {
			items := []v1alpha1.ChecklistItem{{Item: "logo", Checked: true}, {Item: "cta", Checked: true}, {Item: "copy"}, {Item: "legal"}}
			rec := do(router, call{method: http.MethodPost, path: reviewPath(), body: v1alpha1.QCReviewRequest{QcDecision: "rework", ChecklistItems: &items}})
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = do(router, call{method: http.MethodGet, path: "/api/v1/assets/" + itoa(id) + "/qc-reviews"})
			Expect(rec.Code).To(Equal(http.StatusOK))

			var reviews v1alpha1.QCReviewList
			Expect(json.Unmarshal(rec.Body.Bytes(), &reviews)).To(Succeed())
			Expect(reviews).To(HaveLen(1))
			Expect(*reviews[0].ChecklistCompletion).To(Equal(50))
			Expect(reviews[0].ChecklistItems).To(HaveLen(4))
		})
	})

	Context("submit", func() {
		It("resubmits after rework", func() {
			rec := do(router, call{method: http.MethodPost, path: reviewPath(), body: v1alpha1.QCReviewRequest{QcDecision: "rework"}})
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = do(router, call{
				method:  http.MethodPost,
				path:    "/api/v1/assets/" + itoa(id) + "/submit-qc",
				headers: map[string]string{auth.UserIDHeader: "5", auth.RoleHeader: "user"},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			asset := decodeAsset(rec.Body.Bytes())
			Expect(asset.WorkflowStage).To(Equal("SentToQC"))
			Expect(asset.QcStatus).To(Equal("Pending"))
			Expect(*asset.SubmittedBy).To(BeEquivalentTo(5))
			Expect(asset.ReworkCount).To(Equal(1))
		})

		It("serves the legacy route", func() {
			rec := do(router, call{method: http.MethodPost, path: "/api/assets/" + itoa(id) + "/submit-qc"})
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("returns 404 for unknown assets", func() {
			rec := do(router, call{method: http.MethodPost, path: "/api/v1/assets/9999/submit-qc"})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("review history", func() {
		BeforeEach(func() {
			rec := do(router, call{method: http.MethodPost, path: reviewPath(), body: v1alpha1.QCReviewRequest{QcDecision: "rejected", QcScore: intPtr(30)}})
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("downloads the history as csv", func() {
			rec := do(router, call{method: http.MethodGet, path: "/api/v1/assets/" + itoa(id) + "/qc-reviews?format=csv"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("qc-reviews.csv"))
			Expect(rec.Body.String()).To(ContainSubstring("rejected"))
		})

		It("downloads the history as xlsx", func() {
			rec := do(router, call{method: http.MethodGet, path: "/api/v1/assets/" + itoa(id) + "/qc-reviews?format=xlsx"})
			Expect(rec.Code).To(Equal(http.StatusOK))

			f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
			Expect(err).To(BeNil())
			defer f.Close()
			rows, err := f.GetRows("Reviews")
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(2))
		})

		It("rejects unknown formats", func() {
			rec := do(router, call{method: http.MethodGet, path: "/api/v1/assets/" + itoa(id) + "/qc-reviews?format=pdf"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
