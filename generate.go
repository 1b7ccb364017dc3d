package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"apigen-backend/config"
	"apigen-backend/generator"
	"apigen-backend/logger"
	"apigen-backend/middlewares"
	"apigen-backend/models"
	"apigen-backend/utils"
)

var (
	generateRequest string
	generateOut     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an archive from a request file without starting the server",
	Long: `Reads a generation request (the JSON body accepted by POST /api/generate)
and writes the resulting zip archive.

Example:
  apigen generate --request cliente.json --out api_gerada.zip`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateRequest, "request", "r", "", "Path to the request JSON file")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "api_gerada.zip", "Output archive path")
	_ = generateCmd.MarkFlagRequired("request")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	data, err := os.ReadFile(generateRequest)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req models.GenerationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	utils.NormalizeDTO(&req)
	if err := middlewares.ValidateStruct(&req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	var buf bytes.Buffer
	if err := generator.New(cfg.StagingDir, log).WriteArchive(&req, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(generateOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", generateOut, buf.Len())
	return nil
}
