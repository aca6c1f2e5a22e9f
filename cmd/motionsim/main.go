package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/descriptor"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/physics"
	"github.com/oomph-ac/motion/replay"
	"github.com/oomph-ac/motion/settings"
	"github.com/oomph-ac/motion/simulation"
	"github.com/oomph-ac/motion/telemetry"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "motion.toml", "path of the settings file, .toml or .yaml")
	list       = flag.Bool("list", false, "list the values of every enum and exit")
	ticks      = flag.Int("ticks", 200, "number of ticks to simulate")
	entities   = flag.Int("entities", 12, "number of entities to simulate")
	verify     = flag.Bool("verify", true, "replay the scenario and compare digests")
	watch      = flag.Bool("watch", false, "re-run the scenario whenever the settings file changes")
)

// The following program runs a scripted scenario through the reconciliation core and prints
// the digest of the run.
func main() {
	flag.Parse()
	if *list {
		printDescriptors()
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	if err := settings.SaveDefault(*configPath); err == nil {
		log.Infof("created default settings at %s", *configPath)
	}
	s, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}
	log.SetLevel(s.LogLevel())

	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Sentry.DSN, Environment: s.Sentry.Environment}); err != nil {
			log.Fatalf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	if err := run(log, s); err != nil {
		log.Errorf("scenario failed: %v", err)
	}
	if !*watch {
		return
	}

	w, err := settings.Watch(*configPath)
	if err != nil {
		log.Fatalf("unable to watch settings: %v", err)
	}
	defer w.Close()
	log.Infof("watching %s for changes", *configPath)
	for {
		select {
		case s := <-w.Updates:
			log.SetLevel(s.LogLevel())
			log.Info("settings reloaded")
			if err := run(log, s); err != nil {
				log.Errorf("scenario failed: %v", err)
			}
		case err := <-w.Errors:
			log.Errorf("settings reload failed: %v", err)
		}
	}
}

func printDescriptors() {
	for _, d := range descriptor.All() {
		fmt.Println(d.TypeName)
		for _, v := range d.Values {
			fmt.Printf("  %3d  %-36s %s\n", v.Tag, v.Name, v.Alias)
		}
	}
}

// run simulates the scenario once and logs its digest.
func run(log *logrus.Logger, s settings.Settings) error {
	var counters telemetry.Counters
	reporters := telemetry.Multi{&counters}
	if s.Sentry.DSN != "" {
		tags := orderedmap.NewOrderedMap[string, string]()
		tags.Set("component", "motionsim")
		tags.Set("entities", strconv.Itoa(*entities))
		reporters = append(reporters, telemetry.NewSentryReporter(nil, tags))
	}

	newPipeline := func() (*simulation.Pipeline, error) {
		selOpts, err := s.SelectorOptions()
		if err != nil {
			return nil, err
		}
		mode, err := s.DefaultColliderMode()
		if err != nil {
			return nil, err
		}
		return simulation.NewPipeline(simulation.Config{
			Log:         log,
			Reconciler:  s.ReconcilerOptions(),
			Selector:    selOpts,
			DefaultMode: mode,
			Reporter:    reporters,
			Sweeper:     simulation.SpaceSweeper(obstacles(), 0.3),
		})
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	script := scenario(*entities, *ticks, s.Reconciler.FixedDt)

	start := time.Now()
	rec, err := replay.Run(p, s.Simulation.Workers, script, 16)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"session":   rec.Session().String(),
		"steps":     rec.Steps(),
		"reports":   counters.Total(),
		"nonFinite": counters.Count(oerror.KindNonFiniteTransform),
		"elapsed":   time.Since(start),
	}).Infof("digest %016x", rec.Digest())

	history := rec.History()
	sum := replay.Summarize(history)
	log.Debugf("last %d steps: gap mean=%.4f median=%.4f stddev=%.4f max=%.4f max step=%.4f snaps=%d", sum.Steps, sum.Mean, sum.Median, sum.StdDev, sum.Max, sum.MaxStep, sum.Snaps)
	for _, r := range history {
		log.Debugf("tick %d entity %d: %s at %v progress=%.2f mode=%s", r.Tick, r.Entity, r.Handoff.Method, r.Handoff.Transform.Pos, r.Handoff.Progress, r.Handoff.Mode)
	}

	if !*verify {
		return nil
	}
	replayPipeline, err := newPipeline()
	if err != nil {
		return err
	}
	if err := replay.Verify(replayPipeline, s.Simulation.Workers, script, rec.Digest()); err != nil {
		return err
	}
	log.Info("replay matches")
	return nil
}

// obstacles returns a space holding a wall and a few props.
func obstacles() *physics.SpaceSweeper {
	space := physics.NewSpaceSweeper()
	space.AddObstacle(cube.Box(6, 0, -20, 7, 3, 20), collider.KindWorld)
	for i := 0; i < 4; i++ {
		z := float64(i*4 - 8)
		space.AddObstacle(cube.Box(-6, 0, z, -5, 1, z+1), collider.KindProp)
	}
	return space
}

// scenario builds a script in which entities cycle through every selectable method. The
// animation follows a circle and the game logic trails it.
func scenario(n, ticks int, dt float64) replay.Script {
	var script replay.Script
	var methods []movement.Method
	for _, m := range movement.Methods().Visible() {
		if m.Selectable() {
			methods = append(methods, m)
		}
	}
	for i := 0; i < n; i++ {
		m := methods[i%len(methods)]
		bindings := map[string]binding.Value{
			binding.NameForcedMethod: binding.Str(m.String()),
		}
		if i%5 == 4 {
			bindings[binding.NameColliderMode] = binding.Str(collider.ModeGroundedOnly.String())
		}
		script.Spawns = append(script.Spawns, replay.Spawn{
			ID:       uint64(i),
			Kind:     collider.KindActor,
			Start:    movement.Identity(),
			Bindings: bindings,
		})
	}

	for tick := 0; tick < ticks; tick++ {
		frames := make(map[uint64]simulation.Frame, n)
		for i := 0; i < n; i++ {
			radius := 2 + float64(i%4)
			angle := float64(tick)*dt + float64(i)
			pos := mgl64.Vec3{math.Cos(angle) * radius * 2, 0, math.Sin(angle) * radius}
			vel := mgl64.Vec3{-math.Sin(angle) * radius * 2, 0, math.Cos(angle) * radius}
			rot := mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0})

			logic := movement.Transform{Pos: pos.Sub(vel.Mul(dt * 3)), Rot: rot}
			if tick > 0 && tick%97 == 0 && i == 0 {
				logic.Pos[0] = math.NaN()
			}
			frames[uint64(i)] = simulation.Frame{
				Animation: movement.AnimationSample{Transform: movement.Transform{Pos: pos, Rot: rot}, Velocity: vel},
				Logic:     logic,
				Dt:        dt,
			}
		}
		script.Ticks = append(script.Ticks, frames)
	}
	return script
}
