package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/device"
	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
	"github.com/noizetoys/Astoria-Four-Pole-sub008/library"
)

func getProgram(inPortIdx int, fp *device.FourPole, slot int) {
	p, devID, err := fp.RequestProgram(midi.GetInPorts()[inPortIdx], slot)
	if err != nil {
		log.Fatalf("failed to read program: %v", err)
	}
	log.Printf("Read program from slot %d (device 0x%02X)", slot, devID)

	asJson, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal program to JSON: %v", err)
	}

	fmt.Println(string(asJson))
}

func setProgram(fp *device.FourPole) {
	asJson, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("failed to read program JSON from stdin: %v", err)
	}

	p := &fourpole.Program{}
	if err := json.Unmarshal(asJson, p); err != nil {
		log.Fatalf("failed to unmarshal program JSON: %v", err)
	}

	if err := fp.SendProgram(p); err != nil {
		log.Fatalf("failed to send program: %v", err)
	}
	log.Printf("Sent program to slot %d", p.Number)
}

func randomProgram(fp *device.FourPole, slot int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	p := fourpole.NewProgram(slot)
	p.Randomize(rng)

	if err := fp.SendProgram(p); err != nil {
		log.Fatalf("failed to send randomized program: %v", err)
	}
	log.Printf("Sent randomized program to slot %d", slot)
}

func backupConfiguration(inPortIdx int, fp *device.FourPole) {
	c, devID, err := fp.RequestConfiguration(midi.GetInPorts()[inPortIdx])
	if err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}
	log.Printf("Read full configuration from device 0x%02X", devID)

	store, err := library.OpenStore(libraryDir)
	if err != nil {
		log.Fatalf("failed to open library: %v", err)
	}
	if err := store.SaveConfiguration(c); err != nil {
		log.Fatalf("failed to save configuration: %v", err)
	}
	log.Printf("Saved %d programs and globals to %s/", len(c.Programs), libraryDir)
}

func restoreConfiguration(fp *device.FourPole) {
	store, err := library.OpenStore(libraryDir)
	if err != nil {
		log.Fatalf("failed to open library: %v", err)
	}
	c, err := store.LoadConfiguration()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := fp.SendConfiguration(c); err != nil {
		log.Fatalf("failed to send configuration: %v", err)
	}
	log.Printf("Restored %d programs and globals to the device", len(c.Programs))
}
