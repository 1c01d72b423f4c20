package httpapi_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ifcproc/ifcproc/internal/appconfig"
	"github.com/ifcproc/ifcproc/internal/diskcache"
	"github.com/ifcproc/ifcproc/internal/httpapi"
)

const wallIFC = `#1=IFCPROJECT($,$,$,$,$,$,$,$,$);
#2=IFCRECTANGLEPROFILEDEF(.AREA.,$,$,2.,2.);
#3=IFCAXIS2PLACEMENT3D($,$,$);
#4=IFCDIRECTION((0.,0.,1.));
#5=IFCEXTRUDEDAREASOLID(#2,#3,#4,5.);
#6=IFCSHAPEREPRESENTATION($,$,$,(#5));
#7=IFCPRODUCTDEFINITIONSHAPE($,$,(#6));
#8=IFCWALL($,$,$,$,$,$,#7,$,$);
`

func newTestRouter() http.Handler {
	cache, err := diskcache.New(GinkgoT().TempDir())
	Expect(err).NotTo(HaveOccurred())
	cfg := &appconfig.Config{
		Port: 8080, MaxFileSizeMB: 500, RequestTimeoutSecs: 30, WorkerThreads: 2,
		InitialBatchSize: 100, MaxBatchSize: 1000, BatchSize: 200, CacheMaxAgeDays: 7,
	}
	return httpapi.NewServer(cfg, cache).Router()
}

func multipartIFC(content string) (*bytes.Buffer, string) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", "model.ifc")
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write([]byte(content))
	Expect(err).NotTo(HaveOccurred())
	Expect(w.Close()).To(Succeed())
	return buf, w.FormDataContentType()
}

var _ = Describe("parse API", func() {
	var router http.Handler

	BeforeEach(func() {
		router = newTestRouter()
	})

	Describe("GET /api/v1/health", func() {
		It("reports healthy", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["status"]).To(Equal("healthy"))
		})
	})

	Describe("POST /api/v1/parse", func() {
		It("routes a wall extrusion to exactly one mesh", func() {
			body, contentType := multipartIFC(wallIFC)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp httpapi.ParseResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Meshes).To(HaveLen(1))
			Expect(resp.Meshes[0].IfcType).To(Equal("IFCWALL"))
			Expect(resp.Stats.FromCache).To(BeFalse())
		})

		It("rejects a request with no file field", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", nil)
			req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a file that is not valid UTF-8", func() {
			body, contentType := multipartIFC("")
			// Overwrite with invalid UTF-8 bytes inside a fresh multipart body.
			buf := &bytes.Buffer{}
			w := multipart.NewWriter(buf)
			part, err := w.CreateFormFile("file", "model.ifc")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte{0xff, 0xfe, 0xfd})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", buf)
			req.Header.Set("Content-Type", w.FormDataContentType())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			_ = body
			_ = contentType
		})
	})

	Describe("POST /api/v1/parse/metadata", func() {
		It("counts entities without building geometry", func() {
			body, contentType := multipartIFC(wallIFC)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/metadata", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp httpapi.MetadataResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.EntityCount).To(Equal(8))
			Expect(resp.GeometryCount).To(Equal(1))
		})
	})

	Describe("a repeated parse of the same bytes", func() {
		It("serves the second request from cache", func() {
			body1, contentType1 := multipartIFC(wallIFC)
			req1 := httptest.NewRequest(http.MethodPost, "/api/v1/parse", body1)
			req1.Header.Set("Content-Type", contentType1)
			rec1 := httptest.NewRecorder()
			router.ServeHTTP(rec1, req1)
			Expect(rec1.Code).To(Equal(http.StatusOK))

			var first httpapi.ParseResponse
			Expect(json.Unmarshal(rec1.Body.Bytes(), &first)).To(Succeed())

			Eventually(func() bool {
				body2, contentType2 := multipartIFC(wallIFC)
				req2 := httptest.NewRequest(http.MethodPost, "/api/v1/parse", body2)
				req2.Header.Set("Content-Type", contentType2)
				rec2 := httptest.NewRecorder()
				router.ServeHTTP(rec2, req2)

				var second httpapi.ParseResponse
				if err := json.Unmarshal(rec2.Body.Bytes(), &second); err != nil {
					return false
				}
				return second.Stats.FromCache
			}).Should(BeTrue())
		})
	})

	Describe("POST /api/v1/parse/stream", func() {
		It("emits start, progress, batch, and complete SSE frames", func() {
			body, contentType := multipartIFC(wallIFC)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/stream", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/event-stream"))

			out := rec.Body.String()
			Expect(out).To(ContainSubstring(`"type":"start"`))
			// wallIFC has a single geometry-bearing element, well under the
			// 25-entity progress gate, so the final unconditional frame is
			// the only thing producing this.
			Expect(out).To(ContainSubstring(`"type":"progress"`))
			Expect(out).To(ContainSubstring(`"type":"batch"`))
			Expect(out).To(ContainSubstring(`"type":"complete"`))
		})
	})

	Describe("GET /api/v1/cache/{key}", func() {
		It("404s for an unknown key", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/does-not-exist", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
