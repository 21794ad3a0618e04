package sim_test

import (
	"context"
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/dynamo"
	"github.com/san-kum/dropscene/internal/integrators"
	"github.com/san-kum/dropscene/internal/scene"
	"github.com/san-kum/dropscene/internal/sim"
)

type memSink struct {
	docs   []*scene.Document
	frames []int
	failAt int
	err    error
}

func (m *memSink) WriteFrame(frame int, doc *scene.Document) error {
	if m.err != nil && frame == m.failAt {
		return m.err
	}
	m.frames = append(m.frames, frame)
	m.docs = append(m.docs, doc)
	return nil
}

type countingObserver struct {
	frames []int
	counts []int
}

func (c *countingObserver) OnFrame(frame int, t float64, bodies []*dynamo.Body) {
	c.frames = append(c.frames, frame)
	c.counts = append(c.counts, len(bodies))
}

type frameMetric struct{ n int }

func (f *frameMetric) Name() string                                  { return "frames_seen" }
func (f *frameMetric) Observe(frame int, t float64, b []*dynamo.Body) { f.n++ }
func (f *frameMetric) Value() float64                                { return float64(f.n) }
func (f *frameMetric) Reset()                                        { f.n = 0 }

func newDriver(cfg *config.Config, sink sim.Sink, seed int64) *sim.Driver {
	d, err := sim.New(cfg, integrators.NewEuler(rand.New(rand.NewSource(seed))), sink)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Driver", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	Context("one second at 24 fps", func() {
		var sink *memSink

		BeforeEach(func() {
			cfg.Duration = 1
			sink = &memSink{}
			_, err := newDriver(cfg, sink, 1).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits 24 frames in order", func() {
			Expect(sink.docs).To(HaveLen(24))
			for i, f := range sink.frames {
				Expect(f).To(Equal(i))
			}
		})

		It("spawns exactly one body present in every frame", func() {
			for _, doc := range sink.docs {
				Expect(doc.Scene.Shapes).To(HaveLen(3))
				Expect(doc.Spheres()[0].Material.DiffuseColor).To(Equal([3]float64(dynamo.Palette[0])))
			}
		})

		It("follows free fall until the first ground contact, then stays clamped", func() {
			g, dt := cfg.Gravity, cfg.Dt()
			floor := cfg.GroundLevel + cfg.Radius

			landed := false
			prev := math.Inf(1)
			for frame, doc := range sink.docs {
				c := doc.Spheres()[0].Center
				n := float64(frame + 1)
				expected := cfg.InitialHeight - g*dt*dt*n*(n+1)/2

				if !landed && expected >= floor {
					Expect(c.Y()).To(BeNumerically("~", expected, 1e-9), "frame %d", frame)
					Expect(c.Y()).To(BeNumerically("<", prev))
					Expect(c.X()).To(Equal(0.0))
					Expect(c.Z()).To(Equal(cfg.SpawnZ))
					prev = c.Y()
					continue
				}
				if !landed {
					Expect(c.Y()).To(Equal(floor), "first contact at frame %d", frame)
					landed = true
				}
				Expect(c.Y()).To(BeNumerically(">=", floor))
			}
			Expect(landed).To(BeTrue())
		})
	})

	It("adds one body every spawn interval", func() {
		sink := &memSink{}
		res, err := newDriver(cfg, sink, 2).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Frames).To(Equal(240))
		Expect(res.Bodies).To(Equal(5))
		for frame, doc := range sink.docs {
			Expect(doc.Scene.Shapes).To(HaveLen(2+frame/48+1), "frame %d", frame)
		}
	})

	It("assigns ids in spawn order and never removes bodies", func() {
		cfg.SpawnInterval = 10
		d := newDriver(cfg, &memSink{}, 3)
		_, err := d.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		bodies := d.Bodies()
		Expect(bodies).To(HaveLen(24))
		for i, b := range bodies {
			Expect(b.ID).To(Equal(i + 1))
			Expect(b.Color).To(Equal(dynamo.ColorFor(i + 1)))
		}
	})

	It("is reproducible for a fixed seed", func() {
		a, b := &memSink{}, &memSink{}
		_, err := newDriver(cfg, a, 42).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		_, err = newDriver(cfg, b, 42).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(a.docs).To(HaveLen(len(b.docs)))
		for i := range a.docs {
			Expect(a.docs[i].Spheres()).To(Equal(b.docs[i].Spheres()))
		}
	})

	It("feeds observers and metrics after integration", func() {
		cfg.Duration = 2
		obs := &countingObserver{}
		m := &frameMetric{}

		d := newDriver(cfg, &memSink{}, 1)
		d.AddObserver(obs)
		d.AddMetric(m)

		res, err := d.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.frames).To(HaveLen(48))
		Expect(obs.counts[0]).To(Equal(1))
		Expect(res.Metrics).To(HaveKeyWithValue("frames_seen", 48.0))
	})

	It("refuses an invalid config before producing frames", func() {
		cfg.FPS = 0
		sink := &memSink{}
		_, err := sim.New(cfg, integrators.NewEuler(rand.New(rand.NewSource(1))), sink)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		Expect(sink.docs).To(BeEmpty())
	})

	It("aborts on the first output failure", func() {
		cause := errors.New("disk full")
		sink := &memSink{failAt: 5, err: cause}

		res, err := newDriver(cfg, sink, 1).Run(context.Background())
		Expect(err).To(MatchError(cause))

		var fe *sim.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Frame).To(Equal(5))
		Expect(res.Frames).To(Equal(5))
		Expect(sink.frames).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("stops between frames when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sink := &memSink{}
		_, err := newDriver(cfg, sink, 1).Run(ctx)
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		Expect(sink.docs).To(BeEmpty())
	})
})
