package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/siohaza/recursedit/internal/mapcode"
	"github.com/siohaza/recursedit/internal/tiledef"
	"github.com/siohaza/recursedit/internal/validation"
	"github.com/siohaza/recursedit/pkg/lua"
)

var verifyNoLua bool

// output serializes result lines from concurrent workers.
var output sync.Mutex

var verifyCmd = &cobra.Command{
	Use:   "verify <paths...>",
	Short: "Check that scripts survive a round trip and match what the game runs",
	Long: `verify decodes each script, encodes it again and decodes the result,
reporting any difference. The script is also executed in a Lua sandbox and
the rooms it builds are compared with the decoded ones.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

var checkCmd = &cobra.Command{
	Use:   "check <paths...>",
	Short: "Report problems the game would trip over",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyNoLua, "no-lua", false, "skip the Lua execution comparison")

	rootCmd.AddCommand(verifyCmd, checkCmd)
}

func report(status, path string, details []string) {
	output.Lock()
	defer output.Unlock()

	fmt.Printf("%-4s %s\n", status, path)
	for _, d := range details {
		fmt.Printf("     %s\n", d)
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	files, err := collectScripts(args)
	if err != nil {
		return err
	}
	return runBatch(cmd.Context(), files, verifyFile)
}

func verifyFile(ctx context.Context, path string) error {
	ctx, span := startSpan(ctx, "verify", path)
	var err error
	defer func() { endSpan(span, err) }()

	doc, err := readScript(ctx, path)
	if err != nil {
		report("FAIL", path, []string{err.Error()})
		return err
	}

	code, err := encodeScript(ctx, doc)
	if err != nil {
		report("FAIL", path, []string{err.Error()})
		return err
	}
	again, err := mapcode.Decode(code)
	if err != nil {
		report("FAIL", path, []string{"re-decode: " + err.Error()})
		return err
	}

	var details []string
	for _, d := range mapcode.Diff(doc, again) {
		details = append(details, "round trip: "+d)
	}

	if !verifyNoLua {
		text, rerr := readText(path)
		if rerr != nil {
			err = rerr
			return err
		}
		evaluated, lerr := lua.Evaluate(text)
		if lerr != nil {
			details = append(details, "lua: "+lerr.Error())
		} else {
			for _, d := range mapcode.Diff(doc, evaluated) {
				details = append(details, "lua: "+d)
			}
		}
	}

	if len(details) > 0 {
		report("FAIL", path, details)
		err = fmt.Errorf("%d differences", len(details))
		return err
	}
	report("OK", path, nil)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	files, err := collectScripts(args)
	if err != nil {
		return err
	}
	return runBatch(cmd.Context(), files, checkFile)
}

func checkFile(ctx context.Context, path string) error {
	doc, err := readScript(ctx, path)
	if err != nil {
		report("FAIL", path, []string{err.Error()})
		return err
	}

	warnings := validation.Check(doc)
	if ts := tilesetFor(doc); ts != nil {
		warnings = append(warnings, validation.CheckTiles(doc, ts)...)
	}

	if len(warnings) == 0 {
		report("OK", path, nil)
		return nil
	}
	report("WARN", path, warnings)
	return nil
}

func tilesetFor(doc *mapcode.Document) *tiledef.Tileset {
	if cfg.Game.BasePath == "" {
		return nil
	}
	ts, err := loadTileset(doc.Tileset)
	if err != nil {
		logger.Debug("tileset not checked", "tileset", doc.Tileset, "error", err)
		return nil
	}
	return ts
}
