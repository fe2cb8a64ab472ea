package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	fluidsim "github.com/onlycs/fluidsim-go"
)

var (
	configPath string
	particlesX int
	particlesY int
	gap        float64
	debugLog   bool

	profileSteps int
	csvPath      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidsim",
		Short: "2-D SPH fluid simulation on the GPU",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "scenario YAML config path")
	rootCmd.PersistentFlags().IntVar(&particlesX, "particles-x", 0, "override initial_conditions.particles_x")
	rootCmd.PersistentFlags().IntVar(&particlesY, "particles-y", 0, "override initial_conditions.particles_y")
	rootCmd.PersistentFlags().Float64Var(&gap, "gap", 0, "override initial_conditions.gap")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "boot the windowed simulation host",
		RunE:  runSimulation,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "run headless on the CPU reference path and report per-pass timing",
		RunE:  runProfile,
	}
	profileCmd.Flags().IntVar(&profileSteps, "steps", 300, "number of substeps to run")
	profileCmd.Flags().StringVar(&csvPath, "csv", "", "export per-step timing samples to this CSV path")

	rootCmd.AddCommand(runCmd, profileCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario reads the scenario named by --config (or the embedded
// resting default if empty) and applies any grid-shape overrides given on
// the command line.
func loadScenario() (fluidsim.SimulationConfig, error) {
	cfg, err := fluidsim.LoadConfig(configPath)
	if err != nil {
		return fluidsim.SimulationConfig{}, err
	}
	if particlesX > 0 {
		cfg.InitialConditions.ParticlesX = particlesX
	}
	if particlesY > 0 {
		cfg.InitialConditions.ParticlesY = particlesY
	}
	if gap > 0 {
		cfg.InitialConditions.Gap = float32(gap)
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}

	app := fluidsim.NewAppBuilder().
		UseModules(
			fluidsim.LoggingModule{Prefix: "fluidsim", Debug: debugLog},
			fluidsim.NewPlatformWindow(int(cfg.Settings.WindowSize.X()), int(cfg.Settings.WindowSize.Y()), "fluidsim"),
			fluidsim.InputModule{},
			fluidsim.TimeModule{},
			fluidsim.UiModule{InitialSettings: cfg.Settings, InitialInitialConditions: cfg.InitialConditions},
			fluidsim.NewSimModule(cfg),
		).
		Build()

	app.Run()
	return nil
}

// perfSample is one profiled substep, flattened for CSV export.
type perfSample struct {
	Step                int     `csv:"step"`
	ExternalForcesMs    float64 `csv:"external_forces_ms"`
	UpdatePredictionsMs float64 `csv:"update_predictions_ms"`
	PreSortMs           float64 `csv:"pre_sort_ms"`
	PostSortMs          float64 `csv:"post_sort_ms"`
	UpdateDensitiesMs   float64 `csv:"update_densities_ms"`
	PressureForceMs     float64 `csv:"pressure_force_ms"`
	ViscosityMs         float64 `csv:"viscosity_ms"`
	UpdatePositionsMs   float64 `csv:"update_positions_ms"`
	CollideMs           float64 `csv:"collide_ms"`
	CopyPrimsMs         float64 `csv:"copy_prims_ms"`
	TotalMs             float64 `csv:"total_ms"`
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}

	state := fluidsim.NewHostState()
	state.Settings = cfg.Settings
	state.Reset(cfg.InitialConditions, 1)

	samples := make([]fluidsim.ComputeShaderPerformance, 0, profileSteps)
	totals := make([]float64, 0, profileSteps)
	for i := 0; i < profileSteps; i++ {
		perf := state.StepTimed()
		samples = append(samples, perf)
		totals = append(totals, float64(perf.Total))
	}

	fmt.Println(asciigraph.Plot(totals,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("per-step time (ms), %d particles", cfg.InitialConditions.Count())),
	))
	fmt.Println()
	fmt.Print(samples[len(samples)-1].String())

	if csvPath != "" {
		records := make([]perfSample, len(samples))
		for i, p := range samples {
			records[i] = perfSample{
				Step:                i,
				ExternalForcesMs:    float64(p.ExternalForces),
				UpdatePredictionsMs: float64(p.UpdatePredictions),
				PreSortMs:           float64(p.PreSort),
				PostSortMs:          float64(p.PostSort),
				UpdateDensitiesMs:   float64(p.UpdateDensities),
				PressureForceMs:     float64(p.PressureForce),
				ViscosityMs:         float64(p.Viscosity),
				UpdatePositionsMs:   float64(p.UpdatePositions),
				CollideMs:           float64(p.Collide),
				CopyPrimsMs:         float64(p.CopyPrims),
				TotalMs:             float64(p.Total),
			}
		}

		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating csv %s: %w", csvPath, err)
		}
		defer f.Close()

		if err := gocsv.Marshal(records, f); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		fmt.Printf("wrote %d samples to %s\n", len(records), csvPath)
	}

	return nil
}
