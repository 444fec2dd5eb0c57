package flow_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/asciiforge/internal/flow"
)

var png = flow.File{Name: "cat.png", Type: "image/png", Path: "/tmp/cat.png"}

func readyController() *flow.Controller {
	c := flow.New(nil)
	c.EngineReady()
	return c
}

func expectConsistent(v flow.View) {
	Expect(v.Panel).To(Equal(flow.PanelFor(v.State)))
	switch v.Panel {
	case flow.PanelIntake:
		Expect(v.Art).To(BeEmpty())
		Expect(v.Message).To(BeEmpty())
	case flow.PanelResult:
		Expect(v.Message).To(BeEmpty())
		Expect(v.FileName).To(BeEmpty())
	case flow.PanelError:
		Expect(v.Message).NotTo(BeEmpty())
		Expect(v.Art).To(BeEmpty())
		Expect(v.FileName).To(BeEmpty())
	}
}

var _ = Describe("Controller", func() {
	Describe("startup", func() {
		It("starts loading and moves to ready once the engine is up", func() {
			c := flow.New(nil)
			Expect(c.State()).To(Equal(flow.Loading))
			Expect(c.View().Panel).To(Equal(flow.PanelIntake))

			v := c.EngineReady()
			Expect(v.State).To(Equal(flow.Ready))
		})

		It("shows the error view when the engine fails to load", func() {
			c := flow.New(nil)
			v := c.EngineFailed(errors.New("missing module"))
			Expect(v.State).To(Equal(flow.Failed))
			Expect(v.Message).To(ContainSubstring("conversion engine"))
			Expect(flow.IsKind(c.Err(), flow.KindInit)).To(BeTrue())
			Expect(errors.Is(c.Err(), flow.ErrEngineUnavailable)).To(BeTrue())
		})

		It("refuses to convert after the engine failed to load", func() {
			c := flow.New(nil)
			c.EngineFailed(errors.New("missing module"))
			c.Reset()
			c.Select(png)

			_, v, ok := c.Confirm()
			Expect(ok).To(BeFalse())
			Expect(v.State).To(Equal(flow.Failed))
			Expect(v.Message).To(ContainSubstring("not ready"))
		})
	})

	Describe("file selection", func() {
		It("stores image files", func() {
			c := readyController()
			v := c.Select(png)
			Expect(v.State).To(Equal(flow.FileSelected))
			Expect(v.FileName).To(Equal("cat.png"))
			f, ok := c.File()
			Expect(ok).To(BeTrue())
			Expect(f).To(Equal(png))
		})

		DescribeTable("rejects anything that is not image/*",
			func(mime string) {
				c := readyController()
				v := c.Select(flow.File{Name: "doc", Type: mime})
				Expect(v.State).To(Equal(flow.Failed))
				Expect(v.Message).To(Equal("Please select a valid image file."))
				_, ok := c.File()
				Expect(ok).To(BeFalse())
			},
			Entry("pdf", "application/pdf"),
			Entry("text", "text/plain"),
			Entry("empty", ""),
			Entry("prefix without slash", "imagex/png"),
		)

		It("lets a fresh selection overwrite the previous one", func() {
			c := readyController()
			c.Select(png)
			c.Select(flow.File{Name: "dog.jpg", Type: "image/jpeg"})
			f, _ := c.File()
			Expect(f.Name).To(Equal("dog.jpg"))
		})

		It("ignores selections while processing", func() {
			c := readyController()
			c.Select(png)
			c.Confirm()
			v := c.Select(flow.File{Name: "dog.jpg", Type: "image/jpeg"})
			Expect(v.State).To(Equal(flow.Processing))
		})
	})

	Describe("conversion", func() {
		var (
			c   *flow.Controller
			job flow.Job
		)

		BeforeEach(func() {
			c = readyController()
			c.Select(png)
			var ok bool
			job, _, ok = c.Confirm()
			Expect(ok).To(BeTrue())
			Expect(c.State()).To(Equal(flow.Processing))
		})

		It("refuses a second confirm while one is outstanding", func() {
			_, _, ok := c.Confirm()
			Expect(ok).To(BeFalse())
			Expect(c.Busy()).To(BeTrue())
		})

		It("shows the art on success", func() {
			v := c.Complete(job, "row1\nrow2", nil)
			Expect(v.State).To(Equal(flow.Success))
			Expect(v.Art).To(Equal("row1\nrow2"))
			Expect(c.Result()).To(Equal("row1\nrow2"))
			Expect(c.Busy()).To(BeFalse())
		})

		It("maps marked text to a logical failure carrying the text", func() {
			v := c.Complete(job, "Erro: formato inválido", nil)
			Expect(v.State).To(Equal(flow.Failed))
			Expect(v.Message).To(ContainSubstring("Erro: formato inválido"))
			Expect(flow.IsKind(c.Err(), flow.KindLogical)).To(BeTrue())
		})

		It("maps an engine error to a critical failure", func() {
			v := c.Complete(job, "", errors.New("panic: index out of range"))
			Expect(v.State).To(Equal(flow.Failed))
			Expect(v.Message).To(Equal("A critical error occurred during conversion."))
			Expect(errors.Is(c.Err(), flow.ErrEngineFault)).To(BeTrue())
		})

		It("maps read errors to an io failure", func() {
			v := c.ReadFailed(job, errors.New("permission denied"))
			Expect(v.State).To(Equal(flow.Failed))
			Expect(flow.IsKind(c.Err(), flow.KindIO)).To(BeTrue())
		})

		It("discards a result that arrives after a reset", func() {
			c.Reset()
			v := c.Complete(job, "late art", nil)
			Expect(v.State).To(Equal(flow.Ready))
			Expect(c.Result()).To(BeEmpty())
		})

		It("discards a result from an older conversion", func() {
			c.Reset()
			c.Select(png)
			next, _, ok := c.Confirm()
			Expect(ok).To(BeTrue())

			c.Complete(job, "stale", nil)
			Expect(c.State()).To(Equal(flow.Processing))

			v := c.Complete(next, "fresh", nil)
			Expect(v.Art).To(Equal("fresh"))
		})
	})

	DescribeTable("reset returns to ready with nothing retained",
		func(setup func(c *flow.Controller)) {
			c := readyController()
			setup(c)
			v := c.Reset()
			Expect(v.State).To(Equal(flow.Ready))
			_, ok := c.File()
			Expect(ok).To(BeFalse())
			Expect(c.Result()).To(BeEmpty())
			Expect(c.Err()).To(BeNil())
		},
		Entry("from file-selected", func(c *flow.Controller) { c.Select(png) }),
		Entry("from success", func(c *flow.Controller) {
			c.Select(png)
			job, _, _ := c.Confirm()
			c.Complete(job, "art", nil)
		}),
		Entry("from error", func(c *flow.Controller) { c.Select(flow.File{Name: "a.txt", Type: "text/plain"}) }),
	)

	It("re-entering a state only re-applies display data", func() {
		c := readyController()
		first := c.Enter(flow.FileSelected, flow.Data{FileName: "a.png"})
		second := c.Enter(flow.FileSelected, flow.Data{FileName: "a.png"})
		Expect(second).To(Equal(first))
	})

	It("keeps exactly one consistent view over random event sequences", func() {
		for seed := int64(0); seed < 200; seed++ {
			rng := rand.New(rand.NewSource(seed))
			c := flow.New(nil)
			var jobs []flow.Job

			for step := 0; step < 40; step++ {
				var v flow.View
				switch rng.Intn(9) {
				case 0:
					v = c.EngineReady()
				case 1:
					if rng.Intn(10) == 0 {
						v = c.EngineFailed(errors.New("boom"))
					} else {
						v = c.EngineReady()
					}
				case 2:
					v = c.Select(png)
				case 3:
					v = c.Select(flow.File{Name: "x.bin", Type: "application/octet-stream"})
				case 4:
					job, view, ok := c.Confirm()
					if ok {
						jobs = append(jobs, job)
					}
					v = view
				case 5, 6:
					if len(jobs) == 0 {
						v = c.View()
						break
					}
					job := jobs[rng.Intn(len(jobs))]
					texts := []string{"art\nart", "Erro: bad", ""}
					var err error
					if rng.Intn(4) == 0 {
						err = errors.New("fault")
					}
					v = c.Complete(job, texts[rng.Intn(len(texts))], err)
				case 7:
					if len(jobs) > 0 {
						v = c.ReadFailed(jobs[len(jobs)-1], errors.New("eof"))
					} else {
						v = c.View()
					}
				case 8:
					v = c.Reset()
				}

				Expect(v).To(Equal(c.View()))
				Expect(v.State).To(Equal(c.State()))
				expectConsistent(v)
			}
		}
	})
})
