package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctxmerge/pkg/config"
	"ctxmerge/pkg/merge"
)

// largeOutputWarning is the artifact size past which the summary suggests
// tighter filters.
const largeOutputWarning = 5 * 1024 * 1024

var logger *zap.Logger

var flags = struct {
	output        string
	extensions    []string
	ignoreFiles   []string
	ignoreDirs    []string
	ignoreExt     []string
	priorityFiles []string
	maxSize       int64
	maxLines      int
	sort          string
	noTOC         bool
	noIgnore      bool
	noConfig      bool
}{}

// RootCmd is the base command; it runs the merge over the given paths.
var RootCmd = &cobra.Command{
	Use:   "ctxmerge [paths...]",
	Short: "ctxmerge merges a working tree into one bounded context artifact",
	Long: `ctxmerge assembles the text files under the given paths into a single
size-bounded artifact for consumption by an LLM, applying exclusion rules,
content classification, priority ordering, and head/tail truncation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(args)
	},
	SilenceUsage: true,
}

func init() {
	f := RootCmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "llm_context.txt", "Output file name")
	f.StringSliceVar(&flags.extensions, "ext", nil, "File extensions to include (e.g. .py,.js); default is all non-binary files")
	f.StringSliceVar(&flags.ignoreFiles, "ignore-files", nil, "Specific filenames to ignore")
	f.StringSliceVar(&flags.ignoreDirs, "ignore-dirs", nil, "Additional directories to ignore")
	f.StringSliceVar(&flags.ignoreExt, "ignore-ext", nil, "File extensions to ignore (dot optional)")
	f.StringSliceVar(&flags.priorityFiles, "priority-files", nil, "Files to keep regardless of the size ceiling")
	f.Int64Var(&flags.maxSize, "max-size", 1024*1024, "Maximum file size in bytes")
	f.IntVar(&flags.maxLines, "max-lines", 1000, "Maximum lines per file before truncation")
	f.StringVar(&flags.sort, "sort", "priority", "File ordering: priority, alpha, size, or type")
	f.BoolVar(&flags.noTOC, "no-toc", false, "Skip the table of contents")
	f.BoolVar(&flags.noIgnore, "no-ignore", false, "Skip parsing ignore files (.gitignore, .dockerignore, ...)")
	f.BoolVar(&flags.noConfig, "no-config", false, "Skip loading "+config.LocalFileName)
}

// Execute wires the logger into the command tree and runs it.
func Execute(l *zap.Logger) error {
	logger = l
	return RootCmd.Execute()
}

func runMerge(paths []string) error {
	opts := merge.DefaultOptions()

	if !flags.noConfig {
		cfg, err := config.Load(logger)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.Apply(&opts)
	}

	opts.Paths = paths
	opts.Output = flags.output
	opts.Extensions = append(opts.Extensions, flags.extensions...)
	opts.IgnoreFiles = append(opts.IgnoreFiles, flags.ignoreFiles...)
	opts.IgnoreDirs = append(opts.IgnoreDirs, flags.ignoreDirs...)
	opts.IgnoreExt = append(opts.IgnoreExt, flags.ignoreExt...)
	opts.PriorityFiles = append(opts.PriorityFiles, flags.priorityFiles...)
	opts.MaxFileSize = flags.maxSize
	opts.MaxLines = flags.maxLines
	sortMode, err := merge.ParseSortMode(flags.sort)
	if err != nil {
		return err
	}
	opts.Sort = sortMode
	opts.IncludeTOC = !flags.noTOC
	opts.ParseIgnores = !flags.noIgnore

	if !strings.HasSuffix(opts.Output, ".txt") {
		opts.Output += ".txt"
	}

	summary, err := merge.Run(opts, logger)
	if err != nil {
		if errors.Is(err, merge.ErrNoFilesSelected) {
			return fmt.Errorf("no files found matching criteria; try --no-ignore or looser filters: %w", err)
		}
		return err
	}

	fmt.Printf("Files processed : %s\n", humanize.Comma(int64(summary.FilesProcessed)))
	fmt.Printf("Lines written   : %s\n", humanize.Comma(int64(summary.LinesWritten)))
	fmt.Printf("Files truncated : %s\n", humanize.Comma(int64(summary.FilesTruncated)))
	fmt.Printf("Output size     : %s\n", humanize.Bytes(uint64(summary.OutputSizeBytes)))
	fmt.Printf("Output file     : %s\n", opts.Output)

	if summary.OutputSizeBytes > largeOutputWarning {
		fmt.Println("Warning: output is large; consider tighter filters or --max-size")
	}
	return nil
}
