// Package main implements archivec, the record-archive build tool.
// It reads one or more text inputs, one record per line, and writes a
// compact binary archive for each into the output directory
// (internal/archive), readable by
// a memory-constrained target without allocating.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/measter/recordarchive/internal/archive"
	"github.com/measter/recordarchive/internal/config"
	"github.com/measter/recordarchive/internal/logging"
)

var (
	appName    = "archivec"
	appVersion = "dev" // injected at build time via -ldflags
)

func main() {
	args, action := parseFlags()
	if action != "" {
		return
	}
	if err := run(args); err != nil {
		log.Fatalln(err)
	}
}

// parsedArgs holds the parsed command line arguments.
type parsedArgs struct {
	inputDir     string
	outputDir    string
	manifest     string
	logLevel     string
	force        bool
	maxRecordLen int
	inputs       []string
}

// parseFlags parses command line flags and returns the parsed args.
// Returns a non-empty action string if help/version was shown (the
// caller should return early in that case).
func parseFlags() (parsedArgs, string) {
	return parseFlagsWithArgs(os.Args[1:])
}

func parseFlagsWithArgs(args []string) (parsedArgs, string) {
	fs := flag.NewFlagSet("archivec", flag.ContinueOnError)
	inputDir := fs.StringP("input-dir", "i", "", "directory containing input text files")
	outputDir := fs.StringP("output-dir", "o", "", "directory to write .bin archives into")
	manifest := fs.String("manifest", "", "path to a .hujson preload manifest")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	force := fs.Bool("force", false, "rebuild archives even if the output already exists")
	maxRecordLen := fs.Int("max-record-len", 0, "override the maximum accepted record length")
	helpFlag := fs.Bool("help", false, "show help")
	versionFlag := fs.Bool("version", false, "show version")

	_ = fs.Parse(args)

	if *helpFlag {
		showHelp()
		return parsedArgs{}, "help"
	}
	if *versionFlag {
		showVersion()
		return parsedArgs{}, "version"
	}

	return parsedArgs{
		inputDir:     strings.TrimSpace(*inputDir),
		outputDir:    strings.TrimSpace(*outputDir),
		manifest:     strings.TrimSpace(*manifest),
		logLevel:     strings.TrimSpace(*logLevel),
		force:        *force,
		maxRecordLen: *maxRecordLen,
		inputs:       fs.Args(),
	}, ""
}

// run loads configuration, resolves the input list, and builds one
// archive per input.
func run(args parsedArgs) error {
	opts := config.LoadOptions{
		InputDir:     args.inputDir,
		OutputDir:    args.outputDir,
		ManifestFile: args.manifest,
		LogLevel:     args.logLevel,
		Force:        args.force,
		MaxRecordLen: args.maxRecordLen,
	}

	cfg, err := config.LoadWithOverrides(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetLevelFromString(cfg.Logging.Level)

	manifest, err := config.LoadManifest(filepath.Join(cfg.IO.InputDir, cfg.IO.ManifestFile))
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	inputs := args.inputs
	if len(inputs) == 0 {
		inputs, err = discoverInputs(cfg.IO.InputDir)
		if err != nil {
			return fmt.Errorf("failed to list input directory: %w", err)
		}
	}

	for _, name := range inputs {
		if err := archiveInput(cfg, manifest, name); err != nil {
			return fmt.Errorf("archiving %s: %w", name, err)
		}
	}

	return nil
}

// discoverInputs lists the plain files directly under dir, skipping
// any .hujson manifest files and any existing .bin archives.
func discoverInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".bin") || strings.HasSuffix(name, ".hujson") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// archiveInput builds one archive for the named input, following the
// original tool's per-input behavior: a missing input is a warning,
// not a failure, and the build report names whether the stored
// archive ended up compressed or raw.
func archiveInput(cfg *config.Config, manifest *config.Manifest, name string) error {
	inputPath := filepath.Join(cfg.IO.InputDir, name)
	outputPath := filepath.Join(cfg.IO.OutputDir, archiveName(name))

	if !cfg.Build.Force {
		if _, err := os.Stat(outputPath); err == nil {
			logging.Info("%s: skipped (archive exists)", name)
			return nil
		}
	}

	records, err := readRecords(inputPath)
	if os.IsNotExist(err) {
		logging.Warn("%s: input not found", name)
		return nil
	}
	if err != nil {
		return err
	}

	w := archive.NewWriterWithLimit(cfg.Build.MaxRecordLen)
	if preload, ok := manifest.Inputs[name]; ok {
		entries := make([][]byte, len(preload))
		for i, e := range preload {
			entries[i] = []byte(e)
		}
		if err := w.PreloadDict(entries); err != nil {
			return fmt.Errorf("preloading dictionary: %w", err)
		}
	}

	for _, r := range records {
		if err := w.AddRecord(r); err != nil {
			return fmt.Errorf("adding record: %w", err)
		}
	}

	out, err := w.StoreArchive()
	if err != nil {
		return fmt.Errorf("building archive: %w", err)
	}

	if err := atomic.WriteFile(outputPath, strings.NewReader(string(out))); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	if out[0] == 0x01 {
		logging.Info("%s: compressed, max record: %db", name, w.MaxRecordLen())
	} else {
		logging.Info("%s: not compressed", name)
	}

	return nil
}

// readRecords splits a text file into one record per line, mirroring
// the original's line-oriented day1 record function.
func readRecords(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), archive.MaxRecordLen+1)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		records = append(records, []byte(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func archiveName(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + ".bin"
}

func showHelp() {
	fmt.Println(appName)
	fmt.Println("USAGE: archivec [options] [input...]")
	fmt.Println("OPTIONS:")
	fmt.Println("  -i, --input-dir        Directory containing input text files (default .)")
	fmt.Println("  -o, --output-dir       Directory to write .bin archives into (default .)")
	fmt.Println("      --manifest         Path to a .hujson preload manifest, relative to input-dir")
	fmt.Println("      --log-level        Set log level (debug, info, warn, error)")
	fmt.Println("      --force            Rebuild archives even if the output already exists")
	fmt.Println("      --max-record-len   Override the maximum accepted record length")
	fmt.Println("      --version          Show version information")
	fmt.Println("      --help             Show this help message")
	fmt.Println("ENVIRONMENT VARIABLES: ARCHIVEC_INPUT_DIR, ARCHIVEC_OUTPUT_DIR, ARCHIVEC_MANIFEST, ARCHIVEC_LOG_LEVEL, ARCHIVEC_FORCE, ARCHIVEC_MAX_RECORD_LEN")
	fmt.Println("EXAMPLES: archivec -i inputs -o inputs day1.txt")
}

func showVersion() {
	fmt.Printf("%s %s\n", appName, appVersion)
	fmt.Println("Built with Go", time.Now().Year())
}
