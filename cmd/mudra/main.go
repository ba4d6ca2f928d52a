package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/effector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/inference"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

// eventRetention bounds the gesture event log; older rows are pruned
// at startup.
const eventRetention = 30 * 24 * time.Hour

func main() {
	addr := flag.String("addr", ":8844", "HTTP listen address")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Control")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dataDir, "config.json"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := st.Modes().Seed(control.DefaultModes()); err != nil {
		log.Fatalf("Failed to seed modes: %v", err)
	}
	storedModes, err := st.Modes().List()
	if err != nil {
		log.Fatalf("Failed to load modes: %v", err)
	}

	modes := control.NewManager(cfg.Modes, storedModes)

	backend, err := inference.NewDNNBackend(modelPaths(dataDir))
	if err != nil {
		log.Fatalf("Failed to load models: %v", err)
	}
	defer backend.Close()

	cam := capture.NewCamera(cfg.Camera)
	eff := effector.NewScriptEffector()

	eng := engine.New(cfg, cam, backend, modes, eff)

	// Persist fired gestures for the activity log.
	events := st.Events()
	if pruned, err := events.Prune(time.Now().Add(-eventRetention)); err != nil {
		log.Printf("prune gesture events: %v", err)
	} else if pruned > 0 {
		log.Printf("Pruned %d gesture events older than %s", pruned, eventRetention)
	}
	eng.AddListener(func(out engine.FrameOutput) {
		for _, id := range out.Fired {
			if _, err := events.Record(id, modes.CurrentKey(), out.FrameCount, out.Timestamp); err != nil {
				log.Printf("record gesture event: %v", err)
			}
		}
	})

	srv := server.New(server.Config{
		Engine:    eng,
		Store:     st,
		Camera:    cam,
		StreamFPS: cfg.Camera.FPS,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := eng.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	defer eng.Stop()

	if *headless {
		waitForSignal()
		return
	}

	runTray(eng, modes)
}

// runTray blocks in the system tray loop until quit is selected.
func runTray(eng *engine.Engine, modes *control.Manager) {
	entries := []tray.ModeEntry{{Key: control.ModeDisabled, Name: "Disabled"}}
	for _, m := range modes.Modes() {
		entries = append(entries, tray.ModeEntry{Key: m.Key, Name: m.Name})
	}

	t := tray.New(entries)
	t.OnToggle(func(paused bool) {
		if paused {
			eng.Pause()
		} else {
			eng.Resume()
		}
	})
	t.OnMode(func(key string) {
		if modes.Switch(key, time.Now()) {
			if m := modes.Current(); m != nil {
				t.SetMode(m.Name)
			} else {
				t.SetMode("disabled")
			}
		}
	})
	t.OnQuit(func() {
		eng.Stop()
	})
	t.Run()
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down")
}

// modelPaths returns the on-disk location of each model under the
// data directory.
func modelPaths(dataDir string) map[string]string {
	modelDir := filepath.Join(dataDir, "models")
	return map[string]string{
		inference.ModelPalmDetection:     filepath.Join(modelDir, "palm_detection.onnx"),
		inference.ModelHandLandmarks:     filepath.Join(modelDir, "hand_landmarks.onnx"),
		inference.ModelGestureEmbedder:   filepath.Join(modelDir, "gesture_embedder.onnx"),
		inference.ModelGestureClassifier: filepath.Join(modelDir, "gesture_classifier.onnx"),
	}
}
