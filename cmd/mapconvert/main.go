package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/mapexport"
	"github.com/siohaza/recursedit/internal/textenc"
	"github.com/siohaza/recursedit/internal/validation"
)

var (
	inputDir  string
	outputDir string
	format    string
	charset   string
)

var rootCmd = &cobra.Command{
	Use:   "mapconvert [files...]",
	Short: "convert recursed map scripts to toml, yaml or json",
	Run:   runConvert,
}

func init() {
	rootCmd.Flags().StringVarP(&inputDir, "input", "i", "maps", "Input directory with map scripts")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "converted", "Output directory for data files")
	rootCmd.Flags().StringVarP(&format, "format", "f", "toml", "Output format (toml, yaml, json)")
	rootCmd.Flags().StringVar(&charset, "charset", textenc.DefaultCharset, "Charset of the input scripts")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) {
	outFormat, err := mapexport.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	files, err := getInputFiles(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get input files: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No input files found")
		os.Exit(1)
	}

	converted := 0
	skipped := 0
	failed := 0

	for _, file := range files {
		doc, err := convertScript(file)
		if err != nil {
			fmt.Printf("SKIP %s: %v\n", filepath.Base(file), err)
			skipped++
			continue
		}

		baseName := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		outputPath := filepath.Join(outputDir, baseName+"."+string(outFormat))

		if err := writeData(outputPath, doc, outFormat); err != nil {
			fmt.Printf("FAIL %s: %v\n", baseName, err)
			failed++
			continue
		}

		fmt.Printf("OK   %s -> %s\n", filepath.Base(file), filepath.Base(outputPath))
		converted++
	}

	fmt.Printf("\nSummary: %d converted, %d skipped, %d failed\n", converted, skipped, failed)
}

func getInputFiles(args []string) ([]string, error) {
	var files []string

	if len(args) == 0 {
		args = []string{inputDir}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			dirFiles, err := filepath.Glob(filepath.Join(arg, "*.lua"))
			if err != nil {
				return nil, fmt.Errorf("failed to list files in %s: %w", arg, err)
			}
			files = append(files, dirFiles...)
		} else {
			files = append(files, arg)
		}
	}

	return files, nil
}

func convertScript(filename string) (*mapcode.Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	text, err := textenc.Decode(data, charset)
	if err != nil {
		return nil, err
	}

	doc, err := mapcode.Decode(text)
	if err != nil {
		return nil, err
	}

	warnings := validation.Check(doc)
	if len(warnings) > 0 {
		baseName := filepath.Base(filename)
		for _, warning := range warnings {
			fmt.Printf("WARN %s: %s\n", baseName, warning)
		}
	}

	return doc, nil
}

func writeData(filename string, doc *mapcode.Document, outFormat mapexport.Format) error {
	data, err := mapexport.Marshal(mapexport.FromDocument(doc), outFormat)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
