package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	_ "embed"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gitlab.com/gomidi/midi/v2"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/device"
	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
)

func runMCP(inPortIdx int, fp *device.FourPole, fourPoleChannel uint8) {

	s := server.NewMCPServer(
		"Four Pole MCP",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	docTool := mcp.NewTool("fourpole_describe-sysex",
		mcp.WithDescription("Returns the SysEx implementation description for the Four Pole synthesizer."),
	)

	s.AddTool(docTool, docToolHandler)

	getProgramTool := mcp.NewTool("fourpole_get-program",
		mcp.WithDescription("Retrieves a program from the Four Pole synthesizer."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("The program slot (0-19).")),
	)
	s.AddTool(getProgramTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Println("[mcp] Handling get program request.")

		slot, err := request.RequireInt("slot")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		p, _, err := fp.RequestProgram(midi.GetInPorts()[inPortIdx], slot)
		if err != nil {
			return nil, fmt.Errorf("failed to read program: %v", err)
		}

		asJson, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal program to JSON: %v", err)
		}

		return mcp.NewToolResultText(string(asJson)), nil
	})

	sendProgramTool := mcp.NewTool("fourpole_send-program",
		mcp.WithDescription("Sends a program to the Four Pole synthesizer."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("The program slot (0-19).")),
		mcp.WithString("program-json", mcp.Required(), mcp.Description("The program data in JSON format. The JSON must conform to the Program structure.")),
	)
	s.AddTool(sendProgramTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Println("[mcp] Handling send program request.")

		slot, err := request.RequireInt("slot")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		programJson, err := request.RequireString("program-json")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var p fourpole.Program
		if err := json.Unmarshal([]byte(programJson), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal program JSON: %v", err)
		}
		p.Number = slot

		if err := fp.SendProgram(&p); err != nil {
			return nil, fmt.Errorf("failed to send program: %v", err)
		}

		return mcp.NewToolResultText("Program sent successfully."), nil
	})

	getConfigTool := mcp.NewTool("fourpole_get-configuration",
		mcp.WithDescription("Retrieves the full device configuration (20 programs plus global settings) from the Four Pole synthesizer."),
	)
	s.AddTool(getConfigTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Println("[mcp] Handling get configuration request.")

		c, _, err := fp.RequestConfiguration(midi.GetInPorts()[inPortIdx])
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %v", err)
		}

		asJson, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal configuration to JSON: %v", err)
		}

		return mcp.NewToolResultText(string(asJson)), nil
	})

	playNotesTool := mcp.NewTool("fourpole_play-test-notes",
		mcp.WithDescription("Plays test notes on the Four Pole synthesizer."),
	)
	s.AddTool(playNotesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := playTestNotes(fp, fourPoleChannel); err != nil {
			return nil, fmt.Errorf("failed to play test notes: %v", err)
		}
		return mcp.NewToolResultText("Test notes played successfully."), nil
	})

	playTextTool := mcp.NewTool("fourpole_play-notes",
		mcp.WithDescription("Plays a sequence of notes on the Four Pole. Notes are written like C3, F#2, Bb4; 'r' is a rest."),
		mcp.WithString("notes", mcp.Required(), mcp.Description("The notes to play, separated by spaces or commas.")),
	)
	s.AddTool(playTextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := request.RequireString("notes")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := playNotesFromText(fp, fourPoleChannel, notes); err != nil {
			return nil, fmt.Errorf("failed to play notes: %v", err)
		}
		return mcp.NewToolResultText("Notes played successfully."), nil
	})

	log.Println("Starting Four Pole MCP server...")

	if err := server.ServeStdio(s); err != nil {
		fmt.Printf("Server error: %v\n", err)
	}

}

//go:embed fourpole_sysex_implementation.txt
var sysexDoc string

func docToolHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Println("[mcp] Handling SysEx documentation request.")

	return mcp.NewToolResultText(string(sysexDoc)), nil
}
