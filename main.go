package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/photon"
	"github.com/df07/go-photon-transport/pkg/scene"
	"github.com/df07/go-photon-transport/pkg/simulation"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "sphere", "Built-in scene to simulate")
	numPhotons := flag.Int("photons", 10000, "Number of photons to launch")
	configPath := flag.String("config", "", "YAML configuration file (defaults are used when empty)")
	workers := flag.Int("workers", -1, "Number of parallel workers (0 = CPU count, -1 = keep config value)")
	seed := flag.Uint("seed", 0, "Master seed for reproducible runs (0 = keep config value)")
	saveConfig := flag.String("save-config", "", "Write the effective configuration to this file and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Photon Transport")
		fmt.Println("Usage: photons [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
		}
		return
	}

	config, err := loadConfig(*configPath, *workers, *seed)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		if err := simulation.SaveConfig(config, *saveConfig); err != nil {
			fmt.Printf("Error saving configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration saved as %s\n", *saveConfig)
		return
	}

	setup, err := scene.NewBuiltinScene(*sceneType)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Starting %s simulation with %d photons...\n", *sceneType, *numPhotons)
	result, err := runSimulation(ctx, setup, *numPhotons, config, core.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Simulation stopped: %v\n", err)
		if result == nil {
			os.Exit(1)
		}
	}

	fmt.Print(result.Summary())
}

// loadConfig reads the configuration file, if any, and applies flag overrides
func loadConfig(path string, workers int, seed uint) (simulation.Config, error) {
	config := simulation.DefaultConfig()
	if path != "" {
		var err error
		config, err = simulation.LoadConfig(path)
		if err != nil {
			return config, err
		}
	}

	if workers >= 0 {
		config.Workers = workers
	}
	if seed != 0 {
		config.Seed = uint32(seed)
	}
	return config, config.Validate()
}

// runSimulation launches a pencil beam from the scene's beam origin
func runSimulation(ctx context.Context, setup *scene.Setup, n int, config simulation.Config, logger core.Logger) (*simulation.Result, error) {
	solidID := geometry.Locate(setup.Scene, setup.BeamOrigin)
	photons := photon.NewPencilSource(setup.BeamOrigin, setup.BeamDirection, n,
		setup.Scene.SolidMaterialID(solidID), solidID)

	sim, err := simulation.New(setup.Scene, photons, config, logger)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}
