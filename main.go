package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/device"
	"github.com/noizetoys/Astoria-Four-Pole-sub008/sysex"
)

const (
	// The Four Pole answers on channel 1 (0-based value 0) out of the box.
	fourPoleChannel uint8 = 0
	fourPoleDevID   byte  = 0x00
	nameHint              = "four pole"

	libraryDir = "library"
)

func main() {
	log.Println("Available MIDI outputs:")
	log.Print(midi.GetOutPorts().String())

	portIdx, err := findOutPort(nameHint)
	if err != nil {
		log.Fatalf("could not find Four Pole MIDI out port: %v", err)
	}

	inPortIdx, err := findInPort(nameHint)
	if err != nil {
		log.Fatalf("could not find Four Pole MIDI in port: %v", err)
	}

	fp, closer, err := device.Open(fourPoleDevID, checksumMode(), portIdx)
	if err != nil {
		log.Fatalf("failed to open Four Pole output: %v", err)
	}
	defer closer()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "play":
			playTestNotes(fp, fourPoleChannel)
			return
		case "get":
			getProgram(inPortIdx, fp, slotArg())
			return
		case "set":
			setProgram(fp)
			return
		case "random":
			randomProgram(fp, slotArg())
			return
		case "backup":
			backupConfiguration(inPortIdx, fp)
			return
		case "restore":
			restoreConfiguration(fp)
			return

		case "mcp":
			runMCP(inPortIdx, fp, fourPoleChannel)
			return

		default:
			log.Fatalf("unknown command %q", os.Args[1])
		}
	}
	log.Println("exiting: no command specified")
}

// checksumMode picks the algorithm for the connected firmware revision.
// Revision A units expect the plain masked sum; revision B expects the
// complement so the device-side total comes out zero.
func checksumMode() sysex.ChecksumMode {
	switch strings.ToLower(os.Getenv("FOURPOLE_CHECKSUM")) {
	case "", "mask7":
		return sysex.Mask7
	case "complement7":
		return sysex.Complement7
	default:
		log.Fatalf("FOURPOLE_CHECKSUM must be mask7 or complement7, got %q", os.Getenv("FOURPOLE_CHECKSUM"))
		return sysex.Mask7
	}
}

func slotArg() int {
	if len(os.Args) < 3 {
		log.Fatalf("%s needs a slot number (0-19)", os.Args[1])
	}
	slot, err := parseSlot(os.Args[2])
	if err != nil {
		log.Fatalf("bad slot %q: %v", os.Args[2], err)
	}
	return slot
}

func parseSlot(s string) (int, error) {
	slot, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if slot < 0 || slot > 19 {
		return 0, fmt.Errorf("slot must be 0-19, got %d", slot)
	}
	return slot, nil
}

func findOutPort(nameFragment string) (int, error) {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return -1, fmt.Errorf("no MIDI outputs available")
	}

	lower := strings.ToLower(nameFragment)
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), lower) {
			return out.Number(), nil
		}
	}

	return -1, fmt.Errorf("no MIDI output contains %q", nameFragment)
}

func findInPort(nameFragment string) (int, error) {
	ins := midi.GetInPorts()
	if len(ins) == 0 {
		return -1, fmt.Errorf("no MIDI inputs available")
	}

	lower := strings.ToLower(nameFragment)
	for _, in := range ins {
		if strings.Contains(strings.ToLower(in.String()), lower) {
			return in.Number(), nil
		}
	}

	return -1, fmt.Errorf("no MIDI input contains %q", nameFragment)
}
