// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/manpage"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/output"
)

const bashCompletionScript = `# bash completion for {{.Name}}
_{{.Name}}()
{
    local cur prev cmd opts
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "{{.Words}} --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    case "$cmd" in
{{- range .Commands}}
    {{.Name}})
        opts="{{.Words}}"
        ;;
{{- end}}
    completion)
        COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
        return 0
        ;;
    esac

    case "$prev" in
    --output|-o)
        COMPREPLY=( $(compgen -W "{{.Formats}}" -- "$cur") )
        return 0
        ;;
    --root|-r|--out|--tldr-dir)
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
        ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _{{.Name}} {{.Name}}
`

const zshCompletionScript = `#compdef {{.Name}}

_{{.Name}}() {
  local -a cmds
  cmds=(
{{- range .Commands}}
    '{{.Name}}:{{.Usage}}'
{{- end}}
    'completion:generate shell completion script'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands '{{.Name}} commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
{{- range .Commands}}
    {{.Name}})
      _arguments -C \
{{- range .Specs}}
        {{.}} \
{{- end}}
        '*:file:_files'
      ;;
{{- end}}
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _{{.Name}} {{.Name}}
`

type completionCommand struct {
	Name  string
	Usage string
	Words string
	Specs []string
}

type completionData struct {
	Name     string
	Words    string
	Formats  string
	Commands []completionCommand
}

func newCompletionData(app *cli.Command) completionData {
	data := completionData{
		Name:    app.Name,
		Formats: strings.Join(output.Formats, " "),
	}

	var words []string
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		words = append(words, cmd.Name)
		if cmd.Name == "completion" {
			continue
		}

		cc := completionCommand{Name: cmd.Name, Usage: zshEscape(cmd.Usage)}
		var flagWords []string
		for _, f := range cmd.Flags {
			if v, ok := f.(cli.VisibleFlag); ok && !v.IsVisible() {
				continue
			}
			names := dashed(f.Names())
			flagWords = append(flagWords, names...)
			cc.Specs = append(cc.Specs, zshSpec(f, names))
		}
		cc.Words = strings.Join(flagWords, " ")
		data.Commands = append(data.Commands, cc)
	}
	data.Words = strings.Join(words, " ")
	return data
}

func dashed(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if len(n) == 1 {
			out = append(out, "-"+n)
		} else {
			out = append(out, "--"+n)
		}
	}
	return out
}

// zshSpec renders one _arguments spec, such as
// '(--output -o)'{--output,-o}'[output format]:format:(text json yaml raw)'.
func zshSpec(f cli.Flag, names []string) string {
	usage := ""
	if u, ok := f.(interface{ GetUsage() string }); ok {
		usage = zshEscape(u.GetUsage())
	}

	action := ""
	if tv, ok := f.(interface{ TakesValue() bool }); ok && tv.TakesValue() {
		switch f.Names()[0] {
		case "output":
			action = ":format:(" + strings.Join(output.Formats, " ") + ")"
		case "root", "out", "tldr-dir":
			action = ":dir:_directories"
		default:
			action = ":value:"
		}
	}

	if len(names) == 1 {
		return "'" + names[0] + "[" + usage + "]" + action + "'"
	}
	return "'(" + strings.Join(names, " ") + ")'{" + strings.Join(names, ",") + "}'[" + usage + "]" + action + "'"
}

func zshEscape(s string) string {
	return strings.NewReplacer("'", "", "[", "(", "]", ")", ":", " ").Replace(s)
}

// CompletionScript renders the completion script of app for shell.
func CompletionScript(app *cli.Command, shell string) (string, error) {
	var text string
	switch shell {
	case "bash":
		text = bashCompletionScript
	case "zsh":
		text = zshCompletionScript
	default:
		return "", fmt.Errorf("unsupported shell %q, use bash or zsh", shell)
	}

	tmpl, err := template.New(shell).Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, newCompletionData(app)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	} else {
		// Try to detect from SHELL.
		shell = filepath.Base(os.Getenv("SHELL"))
	}

	if shell != "bash" && shell != "zsh" {
		return fmt.Errorf("usage: %s completion [bash|zsh]", cmd.Root().Name)
	}

	script, err := CompletionScript(cmd.Root(), shell)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(stdout(cmd), script)
	return err
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "docgen completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
			manpage.ExamplesKey: [][2]string{
				{"source <(docgen completion bash)", "enable completion in the current bash"},
				{"docgen completion zsh > ~/.zfunc/_docgen", "install zsh completion"},
			},
		},
		Action: CompletionCommandAction,
	}
}
