package main

import (
	"flag"

	"github.com/op/go-logging"

	"rival/config"
	"rival/core"
	inter "rival/interface"
	"rival/nnue"
)

var log = logging.MustGetLogger("main")

func main() {
	configPath := flag.String("config", "rival.toml", "path to a TOML options file")
	cli := flag.Bool("cli", false, "run the interactive command-line driver instead of the UCI loop")
	flag.Parse()

	logging.SetFormatter(logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
	))

	opts := config.Load(*configPath)
	engine := core.NewEngine(opts)

	if opts.UseNNUE && opts.NNUEFile != "" {
		net := &nnue.Network{}
		if err := net.Load(opts.NNUEFile); err != nil {
			log.Warningf("could not load NNUE network %q, falling back to classical evaluation: %v", opts.NNUEFile, err)
		} else {
			engine.SetNetwork(net)
		}
	}

	if *cli {
		inter.RunCommandLineProtocol(engine)
		return
	}

	inter.RunUCIProtocol(engine)
}
