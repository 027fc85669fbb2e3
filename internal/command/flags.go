// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/output"
)

// newSchemaFlag and newTldrFlag return fresh flags. Flags keep parse state,
// so commands cannot share one instance.
func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the attributes available to --attrs, --filter and --sort",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the query flags shared by every command that emits
// rows. params[0] is the command name and params[1] the config file; values
// are read from <cmd>.<flag> and then <flag> in that file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns, src := params[0], ""
	if len(params) > 1 {
		src = params[1]
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".color", altsrc.StringSourcer(src)),
				yaml.YAML("color", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, one of text, json, yaml or raw",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".output", altsrc.StringSourcer(src)),
				yaml.YAML("output", altsrc.StringSourcer(src)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, OneOfValidator(output.Formats...))
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".sort", altsrc.StringSourcer(src)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".titles", altsrc.StringSourcer(src)),
				yaml.YAML("titles", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
	}

	return
}

// NewRootFlag is the repository root. It defaults to the starting directory.
func NewRootFlag(ns, path, startingDir string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "repository root",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DOCGEN_ROOT"),
		),
		Value:       startingDir,
		DefaultText: "current directory",
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, DirectoryValidator)
		},
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, path, flag)
}

// NewJobsFlag bounds the parallel work of a command. 0 uses every CPU.
func NewJobsFlag(ns, path string) *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "maximum parallel workers, 0 for one per CPU",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DOCGEN_JOBS"),
			yaml.YAML(ns+".jobs", altsrc.StringSourcer(path)),
			yaml.YAML("jobs", altsrc.StringSourcer(path)),
		),
		Value: 0,
		Validator: func(value int) error {
			return FlagValidators(value, NonNegativeValidator)
		},
	}
}

// NewRepoFlags are the flags of every command that loads a repository.
func NewRepoFlags(ns, path, startingDir string) []cli.Flag {
	return []cli.Flag{
		NewRootFlag(ns, path, startingDir),
		NewJobsFlag(ns, path),
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "scan every source file instead of using cached snippets",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".no-cache", altsrc.StringSourcer(path)),
			),
		},
		&cli.BoolFlag{
			Name:  "no-gitignore",
			Usage: "scan files even if .gitignore excludes them",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".no-gitignore", altsrc.StringSourcer(path)),
			),
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
