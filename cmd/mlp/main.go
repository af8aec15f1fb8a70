// Package main runs the reference training step of a 2→10→5 network.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/born-ml/mlp/internal/matrix"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/train"
)

const version = "v0.1.0-dev"

func main() {
	seed := flag.Int64("seed", 42, "Weight initialization seed")
	strategy := flag.String("strategy", "sequential", "Matrix execution strategy: sequential or parallel")
	workers := flag.Int("workers", 0, "Worker count for the parallel strategy (0 = GOMAXPROCS)")
	steps := flag.Int("steps", 1, "Number of training steps")
	optimizer := flag.String("optim", "adam", "Optimizer: adam, sgd or sgd_momentum")
	lr := flag.Float64("lr", 0.05, "Learning rate")
	decay := flag.Float64("decay", 1e-5, "Learning-rate decay")
	beta1 := flag.Float64("beta1", 0.9, "Adam first moment coefficient")
	beta2 := flag.Float64("beta2", 0.95, "Adam second moment coefficient")
	eps := flag.Float64("eps", 1e-7, "Adam epsilon")
	momentum := flag.Float64("momentum", 0.9, "SGD momentum")
	noBiasCorrection := flag.Bool("no-bias-correction", false, "Disable Adam bias correction")
	printMatrices := flag.Bool("print", false, "Print the network output and parameters after training")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mlp %s\n", version)
		return
	}

	strat, ok := matrix.ParseStrategy(*strategy)
	if !ok {
		log.Fatalf("Invalid strategy %q", *strategy)
	}
	kind, err := optim.ParseKind(*optimizer)
	if err != nil {
		log.Fatalf("Invalid optimizer: %v", err)
	}

	engine := matrix.NewEngine(matrix.EngineConfig{
		Strategy: strat,
		Parallel: parallel.Config{NumWorkers: *workers},
	})

	net, err := train.NewMLP(train.MLPConfig{Widths: []int{2, 10, 5}, Seed: *seed, Engine: engine})
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}

	trainer, err := train.NewWithKind(net, nn.CategoricalCrossEntropy, kind, optim.Config{
		LR:             *lr,
		Decay:          *decay,
		Momentum:       *momentum,
		Beta1:          *beta1,
		Beta2:          *beta2,
		Epsilon:        *eps,
		BiasCorrection: !*noBiasCorrection,
		Engine:         engine,
	})
	if err != nil {
		log.Fatalf("Failed to create trainer: %v", err)
	}

	x, err := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		log.Fatal(err)
	}
	y, err := matrix.FromRows([][]float64{{0, 0, 1, 0, 0}, {0, 1, 0, 0, 0}})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("mlp %s: 2→10→5, %v strategy, %v optimizer, seed %d\n", version, engine.Strategy(), kind, *seed)
	for step := 1; step <= *steps; step++ {
		res, err := trainer.Step(x, y)
		if err != nil {
			log.Fatalf("Step %d failed: %v", step, err)
		}
		fmt.Printf("step %4d  loss %.6f  accuracy %.2f  lr %.6g\n",
			step, res.Loss, res.Accuracy, trainer.Optimizers()[0].LR())
	}

	if *printMatrices {
		fmt.Println("\noutput:")
		if err := matrix.Fprint(os.Stdout, net.Output()); err != nil {
			log.Fatal(err)
		}
		for _, layer := range net.Layers() {
			fmt.Printf("\n%s weights:\n", layer.Name())
			if err := matrix.Fprint(os.Stdout, layer.Weights()); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%s biases:\n", layer.Name())
			if err := matrix.Fprint(os.Stdout, layer.Biases()); err != nil {
				log.Fatal(err)
			}
		}
	}
}
