// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/meta"
)

const bashCompletionScript = `# bash completion for rowdiff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_rowdiff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "compare headers completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --padding --schema --sort -s --titles -t --where -w"
    local parse="--delimiter -d --encoding -e --header-skip -k --s3-endpoint --s3-profile --s3-region"

    case "$cmd" in
        compare)
            local opts="$common $parse --exit-code --explain --id -i --name -n --pick --strict"
            ;;
        headers)
            local opts="$common $parse"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --encoding|-e)
            COMPREPLY=( $(compgen -W "cp1252 iso-8859-1 latin1 utf-8 utf8 windows1252" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Operands are files.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _rowdiff rowdiff
`

const zshCompletionScript = `#compdef rowdiff

_rowdiff() {
  local -a cmds
  cmds=(
    'compare:compare two delimited text exports row by row'
    'headers:list the columns of a delimited text export'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
    '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
    '--padding[spaces between text columns]:padding'
    '--schema[list the dataset keys]'
    '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
    '(-t --titles)'{-t,--titles}'[show titles]'
    '(-w --where)'{-w,--where}'[row expression]:expression'
    '(-d --delimiter)'{-d,--delimiter}'[field delimiter]:delimiter'
    '(-e --encoding)'{-e,--encoding}'[input encoding]:encoding:(latin1 iso-8859-1 windows1252 cp1252 utf8 utf-8)'
    '(-k --header-skip)'{-k,--header-skip}'[lines before the header]:lines'
    '--s3-endpoint[S3 compatible endpoint]:url'
    '--s3-profile[AWS profile]:profile'
    '--s3-region[AWS region]:region'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'rowdiff commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    compare)
      _arguments -C \
        $common \
        '--exit-code[exit 1 when differences are found]' \
        '--explain[show how the headers differ]' \
        '(-i --id)'{-i,--id}'[id column]:column' \
        '(-n --name)'{-n,--name}'[name column]:column' \
        '--pick[choose operands interactively]' \
        '--strict[fail on duplicate ids]' \
        '1:ORIGINAL:_files' \
        '2:CHANGED:_files'
      ;;
    headers)
      _arguments -C \
        $common \
        '1:FILE:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _rowdiff rowdiff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(writer(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(writer(cmd), zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(writer(cmd), zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(writer(cmd), bashCompletionScript)
		default:
			fmt.Fprintln(errWriter(cmd), "usage: rowdiff completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "rowdiff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
