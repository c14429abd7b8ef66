// Package device talks to a physical Four Pole over MIDI. It owns port
// handling and timeouts; all byte-level work is delegated to the sysex
// package.
package device

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
	"github.com/noizetoys/Astoria-Four-Pole-sub008/sysex"
)

const dumpTimeout = 5 * time.Second

// FourPole is a handle on one device: an open output port, the SysEx device
// ID it is addressed by, and the checksum mode its firmware revision expects.
type FourPole struct {
	devID byte
	mode  sysex.ChecksumMode
	out   drivers.Out
}

// Open opens the MIDI output port at portIndex and returns the device handle
// and a closer for the port and driver.
func Open(devID byte, mode sysex.ChecksumMode, portIndex int) (*FourPole, func(), error) {
	outs, err := drivers.Outs()
	if err != nil {
		return nil, nil, err
	}

	if portIndex < 0 || portIndex >= len(outs) {
		return nil, nil, fmt.Errorf("output port index %d out of range", portIndex)
	}

	out := outs[portIndex]
	if err := out.Open(); err != nil {
		return nil, nil, err
	}

	closer := func() {
		_ = out.Close()
		drivers.Close()
	}
	log.Println("Opened Four Pole MIDI output port", devID, out.String())
	return &FourPole{
		devID: devID,
		mode:  mode,
		out:   out,
	}, closer, nil
}

// Send transmits a MIDI message to the device's output port.
func (fp *FourPole) Send(msg midi.Message) error {
	if !fp.out.IsOpen() {
		if err := fp.out.Open(); err != nil {
			return err
		}
	}
	return fp.out.Send(msg.Bytes())
}

// SendSysEx transmits a raw SysEx message.
func (fp *FourPole) SendSysEx(data []byte) error {
	return fp.Send(midi.Message(data))
}

// sysExBufferSize is generous: an all dump is 592 bytes, a program dump 37.
const sysExBufferSize = 2048

// request sends req, then waits for the first SysEx message of the wanted
// kind, up to the dump timeout.
func (fp *FourPole) request(inPort drivers.In, req []byte, want sysex.MessageKind) ([]byte, error) {
	msgCh := make(chan midi.Message, 1)

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, _ int32) {
		if kind, err := sysex.Classify(msg); err == nil && kind == want {
			select {
			case msgCh <- msg:
			default:
			}
		}
	}, midi.UseSysEx(), midi.SysExBufferSize(sysExBufferSize))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for %s: %w", want, err)
	}
	defer stop()

	if err := fp.SendSysEx(req); err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", want, err)
	}

	select {
	case msg := <-msgCh:
		return msg, nil
	case <-time.After(dumpTimeout):
		return nil, fmt.Errorf("timed out waiting for %s", want)
	}
}

// RequestProgram asks the device for the program in a slot and decodes the
// reply. The returned byte is the responding device's ID.
func (fp *FourPole) RequestProgram(inPort drivers.In, slot int) (*fourpole.Program, byte, error) {
	if slot < 0 || slot >= fourpole.EditableSlots {
		return nil, 0, fmt.Errorf("slot must be in range 0-%d, got %d", fourpole.EditableSlots-1, slot)
	}

	req, err := sysex.EncodeProgramDumpRequest(fp.devID, slot)
	if err != nil {
		return nil, 0, err
	}

	log.Printf("Requesting program %d from device ID 0x%02X", slot, fp.devID)
	msg, err := fp.request(inPort, req, sysex.KindProgramDump)
	if err != nil {
		return nil, 0, err
	}

	p, err := sysex.DecodeProgramDump(msg, fp.mode)
	if err != nil {
		return nil, 0, err
	}
	return p, sysex.DeviceID(msg), nil
}

// RequestConfiguration asks the device for a full all dump and decodes it.
func (fp *FourPole) RequestConfiguration(inPort drivers.In) (*fourpole.Configuration, byte, error) {
	log.Printf("Requesting all dump from device ID 0x%02X", fp.devID)
	msg, err := fp.request(inPort, sysex.EncodeAllDumpRequest(fp.devID), sysex.KindAllDump)
	if err != nil {
		return nil, 0, err
	}

	c, err := sysex.DecodeAllDump(msg, fp.mode)
	if err != nil {
		return nil, 0, err
	}
	return c, sysex.DeviceID(msg), nil
}

// SendProgram transmits a program to its slot's edit buffer.
func (fp *FourPole) SendProgram(p *fourpole.Program) error {
	if !p.Editable() {
		return errors.New("program occupies a ROM slot and cannot be written")
	}
	msg, err := sysex.EncodeProgramDump(p, fp.devID, fp.mode)
	if err != nil {
		return fmt.Errorf("failed to build program dump: %w", err)
	}
	if err := fp.SendSysEx(msg); err != nil {
		return fmt.Errorf("failed to send program %d: %w", p.Number, err)
	}
	return nil
}

// StoreProgram transmits a program as a bulk dump, writing it to device
// storage instead of the edit buffer.
func (fp *FourPole) StoreProgram(p *fourpole.Program) error {
	if !p.Editable() {
		return errors.New("program occupies a ROM slot and cannot be written")
	}
	msg, err := sysex.EncodeProgramBulkDump(p, fp.devID, fp.mode)
	if err != nil {
		return fmt.Errorf("failed to build bulk dump: %w", err)
	}
	if err := fp.SendSysEx(msg); err != nil {
		return fmt.Errorf("failed to store program %d: %w", p.Number, err)
	}
	return nil
}

// SendConfiguration transmits the full device memory as an all dump.
func (fp *FourPole) SendConfiguration(c *fourpole.Configuration) error {
	msg, err := sysex.EncodeAllDump(c, fp.devID, fp.mode)
	if err != nil {
		return fmt.Errorf("failed to build all dump: %w", err)
	}
	if err := fp.SendSysEx(msg); err != nil {
		return fmt.Errorf("failed to send configuration: %w", err)
	}
	return nil
}
