// stereotax plans stereotaxic insertion trajectories and writes motion
// programs for a positioning robot. It reads a plan file describing the
// rig and the intended injections and cannula placements, solves the
// skull-entry geometry for each, and emits one motion program per
// procedure plus a combined drilling program for all planned holes.
//
// Usage:
//
//	stereotax -plan surgery.cfg [options]
//
// Options:
//
//	-plan string    Plan file (required)
//	-out string     Output directory for program artifacts (default ".")
//	-listen string  Overlay feed listen address (default: disabled)
//	-logfile string Log file path (default: stdout)
//
// Examples:
//
//	# Plan a surgery, writing programs to the current directory
//	stereotax -plan surgery.cfg
//
//	# Write programs elsewhere and serve the overlay feed
//	stereotax -plan surgery.cfg -out ./programs -listen :8181
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stereotax-go/pkg/config"
	applog "stereotax-go/pkg/log"
	"stereotax-go/pkg/overlay"
	"stereotax-go/pkg/session"
)

func main() {
	// Command line flags
	planFile := flag.String("plan", "", "Plan file (required)")
	outDir := flag.String("out", ".", "Output directory for program artifacts")
	listenAddr := flag.String("listen", "", "Overlay feed listen address (default: disabled)")
	logFile := flag.String("logfile", "", "Log file path (default: stdout)")

	flag.Parse()

	// Validate required flags
	if *planFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -plan is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Set up logging
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)

		root := applog.New("stereotax")
		root.SetWriter(f)
		root.SetColorize(false)
		applog.ConfigureFromEnv(root)
		applog.SetDefaultLogger(root)
	}

	log.Println("========================================")
	log.Println("Stereotax Planner Starting")
	log.Println("========================================")

	// Parse the plan file
	cfg, err := config.Load(*planFile)
	if err != nil {
		log.Fatalf("Error parsing plan: %v", err)
	}

	rig, err := session.ConfigFromRig(cfg)
	if err != nil {
		log.Fatalf("Error in [rig] section: %v", err)
	}
	rig.OutputDir = *outDir

	log.Printf("Plan: %s", *planFile)
	log.Printf("Output: %s", rig.OutputDir)
	log.Printf("Travel height: %g mm", rig.TravelHeight)
	log.Printf("Travel feed: %g mm/min", rig.TravelFeed)

	sess := session.New(rig)

	// Start the overlay feed before planning so connected clients see
	// every record as it is accepted.
	var feed *overlay.Server
	if *listenAddr != "" {
		feed = overlay.New(*listenAddr, sess)
		sess.SetObserver(feed)
		go func() {
			if err := feed.Start(); err != nil {
				log.Printf("Overlay feed stopped: %v", err)
			}
		}()
		log.Printf("Overlay feed: http://localhost%s", *listenAddr)
	}

	if err := sess.RunPlan(cfg); err != nil {
		log.Fatalf("Plan failed: %v", err)
	}

	// Typos in the plan surface as unused options
	if err := cfg.CheckUnusedOptions(); err != nil {
		log.Printf("Warning: %v", err)
	}

	log.Printf("Planned %d insertion(s)", len(sess.Records()))

	if feed == nil {
		return
	}

	log.Println("========================================")
	log.Println("Serving overlay feed, press Ctrl+C to stop")
	log.Println("========================================")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("")
	log.Println("Shutting down...")
	_ = feed.Stop()
	log.Println("Stereotax Planner stopped")
}
