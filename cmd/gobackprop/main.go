// Command gobackprop trains or runs a sigmoid network described by a
// control file.
//
//	gobackprop [flags] [controlFile]
//
// Without arguments it reads controlFile.txt from the working directory.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/FlavioCFOliveira/GoBackprop/internal/config"
	"github.com/FlavioCFOliveira/GoBackprop/internal/dataset"
	"github.com/FlavioCFOliveira/GoBackprop/internal/net"
	"github.com/FlavioCFOliveira/GoBackprop/internal/report"
	"github.com/FlavioCFOliveira/GoBackprop/internal/weights"
	"golang.org/x/exp/rand"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one session and returns the process exit code:
// 0 on success, 1 when the session cannot start, 2 on bad flags.
// A failed weight save is reported but still exits 0.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "gobackprop: ", 0)

	fs := flag.NewFlagSet("gobackprop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFlag := fs.String("config", "", "control file (overrides the positional argument)")
	seed := fs.Uint64("seed", 0, "seed for randomized weights (0 uses the clock)")
	history := fs.String("history", "", "write the training error of every iteration to this CSV file")
	checkpoint := fs.String("checkpoint", "", "rewrite this weight file every time the training error hits a new low")
	quiet := fs.Bool("quiet", false, "do not echo the configuration")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: gobackprop [flags] [controlFile]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := config.DefaultFile
	switch {
	case *configFlag != "":
		path = *configFlag
	case fs.NArg() > 0:
		path = fs.Arg(0)
	default:
		fmt.Fprintf(stdout, "No control file given, using %s\n", config.DefaultFile)
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Print(err)
		return 1
	}

	if !*quiet {
		if err := report.Config(stdout, cfg); err != nil {
			logger.Print(err)
		}
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	tensor := weights.New(cfg.Topology)
	if err := weights.Initialize(tensor, cfg.WeightsInit(rand.NewSource(*seed))); err != nil {
		logger.Print(err)
		return 1
	}

	ds, err := dataset.LoadFile(cfg.DatasetPath, dataset.Spec{
		Topology: cfg.Topology,
		NumCases: cfg.NumCases,
		Training: cfg.Training,
	})
	if err != nil {
		logger.Print(err)
		return 1
	}

	network := net.New(tensor)

	if cfg.Training {
		trainCfg := net.TrainConfig{
			Lambda:         cfg.Lambda,
			MaxIterations:  cfg.MaxIterations,
			ErrorThreshold: cfg.ErrorThreshold,
		}
		callbacks := []net.Callback{net.Logger{Interval: cfg.KeepAlive, Out: log.New(stdout, "", 0)}}

		var csvLogger *net.CSVLogger
		if *history != "" {
			csvLogger = net.NewCSVLogger(*history, false)
			callbacks = append(callbacks, csvLogger)
		}
		var cp *net.Checkpoint
		if *checkpoint != "" {
			cp = net.NewCheckpoint(*checkpoint, 0)
			cp.Out = logger
			callbacks = append(callbacks, cp)
		}

		res, err := network.Train(ds, trainCfg, callbacks...)
		if err != nil {
			logger.Print(err)
			return 1
		}
		if err := report.Training(stdout, res, trainCfg); err != nil {
			logger.Print(err)
		}
		if csvLogger != nil && csvLogger.Err() != nil {
			logger.Print(csvLogger.Err())
		}
	}

	outputs, err := network.Run(ds)
	if err != nil {
		logger.Print(err)
		return 1
	}

	fmt.Fprintln(stdout)
	if ds.HasExpected() {
		if runErr, err := network.RunError(ds, outputs); err == nil {
			fmt.Fprintf(stdout, "Run error: %f\n\n", runErr)
		}
	}
	if err := report.Table(stdout, ds, outputs); err != nil {
		logger.Print(err)
	}
	fmt.Fprintln(stdout, "\nActual Values:")
	if err := report.Outputs(stdout, outputs); err != nil {
		logger.Print(err)
	}

	if cfg.SaveWeights {
		if err := tensor.Save(cfg.WeightsPath); err != nil {
			logger.Print(err)
			return 0
		}
		fmt.Fprintf(stdout, "\nWeights saved to %s\n", cfg.WeightsPath)
	}

	return 0
}
