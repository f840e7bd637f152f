// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/tecandidates/candidate"
	"v.io/x/lib/cmdline"
)

// optsFlags binds candidate.Opts to a command's flags.  Tool and labels are
// parsed after flag parsing.
type optsFlags struct {
	opts   candidate.Opts
	tool   string
	labels string
}

func newOptsFlags(fs *flag.FlagSet) *optsFlags {
	f := &optsFlags{opts: candidate.DefaultOpts}
	d := candidate.DefaultOpts
	fs.StringVar(&f.tool, "tool", d.Tool.String(), "Annotation tool that produced the predictions; 'hmmer' or 'repeatmasker'")
	fs.StringVar(&f.labels, "labels", strings.Join(d.Labels, ","), "Comma-separated classification labels, in processing order")
	fs.StringVar(&f.opts.InputDir, "input-dir", d.InputDir, "Directory containing <label>.<tool><input-suffix> prediction files")
	fs.StringVar(&f.opts.InputSuffix, "input-suffix", d.InputSuffix, "Prediction file name suffix; a suffix ending in .gz selects gzip decoding")
	fs.StringVar(&f.opts.OutputDir, "output-dir", d.OutputDir, "Output directory")
	fs.Float64Var(&f.opts.HMMER.Threshold, "hmmer-max-evalue", d.HMMER.Threshold, "HMMER predictions with a larger e-value are dropped")
	fs.IntVar(&f.opts.HMMER.MinLength, "hmmer-min-length", d.HMMER.MinLength, "HMMER predictions shorter than this are dropped")
	fs.IntVar(&f.opts.HMMER.MaxDistance, "hmmer-max-distance", d.HMMER.MaxDistance, "Maximum gap between merged HMMER predictions")
	fs.Float64Var(&f.opts.RepeatMasker.Threshold, "rm-min-score", d.RepeatMasker.Threshold, "RepeatMasker predictions with a smaller score are dropped")
	fs.IntVar(&f.opts.RepeatMasker.MinLength, "rm-min-length", d.RepeatMasker.MinLength, "RepeatMasker predictions shorter than this are dropped")
	fs.IntVar(&f.opts.RepeatMasker.MaxDistance, "rm-max-distance", d.RepeatMasker.MaxDistance, "Maximum gap between merged RepeatMasker predictions")
	fs.Float64Var(&f.opts.OverlapFraction, "overlap-fraction", d.OverlapFraction, "Fraction of the smaller candidate allowed outside the shared region of two overlapping candidates")
	fs.BoolVar(&f.opts.IncludeLTRs, "include-ltrs", d.IncludeLTRs, "Keep RepeatMasker predictions whose repeat name matches -ltr-pattern")
	fs.StringVar(&f.opts.LTRPattern, "ltr-pattern", d.LTRPattern, "Regexp matched against RepeatMasker repeat names to identify LTR elements")
	fs.IntVar(&f.opts.Parallelism, "parallelism", d.Parallelism, "Maximum number of label files or sequences processed at once; 0 = runtime.NumCPU()")
	return f
}

// resolve finishes flag parsing and validates the result.
func (f *optsFlags) resolve() (*candidate.Opts, error) {
	var err error
	if f.opts.Tool, err = candidate.ParseTool(f.tool); err != nil {
		return nil, err
	}
	f.opts.Labels = nil
	for _, label := range strings.Split(f.labels, ",") {
		if label = strings.TrimSpace(label); label != "" {
			f.opts.Labels = append(f.opts.Labels, label)
		}
	}
	if err = f.opts.Validate(); err != nil {
		return nil, err
	}
	return &f.opts, nil
}

func newCmdRun() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "run",
		Short: "Build, merge and resolve candidates for one tool",
	}
	flags := newOptsFlags(&cmd.Flags)
	quiet := cmd.Flags.Bool("quiet", false, "Do not copy the final report to stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("run takes no positional arguments, but got %v", argv)
		}
		opts, err := flags.resolve()
		if err != nil {
			return err
		}
		stream := env.Stdout
		if *quiet {
			stream = nil
		}
		_, err = candidate.Run(vcontext.Background(), opts, stream)
		return err
	})
	return cmd
}

func newCmdParams() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "params",
		Short:    "Print the report header for the effective parameters",
		ArgsName: "[label]",
		Long: `
Prints the header lines that run would write at the top of the final report,
or of the given label's report.`,
	}
	flags := newOptsFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) > 1 {
			return fmt.Errorf("params takes at most one label, but got %v", argv)
		}
		opts, err := flags.resolve()
		if err != nil {
			return err
		}
		label := ""
		if len(argv) == 1 {
			label = argv[0]
		}
		return candidate.WriteHeader(env.Stdout, opts, label)
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-te-candidates",
			Short:    "Consolidate transposable-element predictions into final candidates",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdRun(),
				newCmdParams(),
			},
		})
}
