// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package docgen

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/metadata"
	"github.com/staranto/docgen/internal/snippets"
)

// crossCheck ties the metadata to the source tree: snippet tags, snippet
// files and github folders must exist, every version needs exactly one kind
// of body, and rendered text may only use known entities.
func (d *DocGen) crossCheck() {
	for _, name := range sortedKeys(d.Services) {
		svc := d.Services[name]
		d.checkEntities(path.Join(MetadataDir, metadata.ServicesFile), svc.Pos, name, map[string]string{
			"long": svc.Long, "short": svc.Short, "blurb": svc.Blurb,
		})
	}

	for _, name := range sortedKeys(d.SDKs) {
		sdk := d.SDKs[name]
		for v, ver := range sdk.Versions {
			at := fmt.Sprintf("sdk[%d]", v)
			d.checkEntities(path.Join(MetadataDir, metadata.SDKsFile), sdk.Pos, name, map[string]string{
				at + ".long":   ver.Long,
				at + ".short":  ver.Short,
				at + ".guide":  ver.Guide,
				at + ".caveat": ver.Caveat,
			})
		}
	}

	for _, id := range sortedKeys(d.Examples) {
		d.checkExample(d.Examples[id])
	}
}

func (d *DocGen) checkExample(ex metadata.Example) {
	text := map[string]string{
		"title":        ex.Title,
		"title_abbrev": ex.TitleAbbrev,
		"synopsis":     ex.Synopsis,
	}
	for i, s := range ex.SynopsisList {
		text[fmt.Sprintf("synopsis_list[%d]", i)] = s
	}

	for _, lang := range sortedKeys(ex.Languages) {
		descriptions := make(map[string]string)
		for i, ver := range ex.Languages[lang].Versions {
			base := fmt.Sprintf("languages[%s].versions[%d]", lang, i)
			problem := func(kind diag.Kind, field, format string, args ...any) {
				at := base
				if field != "" {
					at += "." + field
				}
				d.Problems.Add(diag.Problem{
					Kind:       kind,
					File:       ex.FileFor(lang),
					Line:       ex.Pos.Line(at),
					ID:         ex.ID,
					Language:   lang,
					SDKVersion: ver.SDKVersion,
					Detail:     fmt.Sprintf(format, args...),
				})
			}

			if sdk, ok := d.SDKs[lang]; ok && ver.SDKVersion > 0 {
				if _, ok := sdk.Versions[ver.SDKVersion]; !ok {
					problem(diag.KindUnknownSDKVersion, "sdk_version", "%s has no SDK version %d", lang, ver.SDKVersion)
				}
			}

			switch {
			case ver.BlockContent != "" && len(ver.Excerpts) > 0:
				problem(diag.KindBlockContentConflict, "block_content", "block_content and excerpts are both set")
			case ver.BlockContent == "" && len(ver.Excerpts) == 0:
				problem(diag.KindMissingBodyContent, "", "neither block_content nor excerpts is set")
			}

			if ver.GitHub != "" && !d.exists(ver.GitHub) {
				problem(diag.KindMissingGitHubPath, "github", "github path %q does not exist", ver.GitHub)
			}

			for j, exc := range ver.Excerpts {
				excerpt := fmt.Sprintf("excerpts[%d]", j)
				descriptions[base+"."+excerpt+".description"] = exc.Description

				if d.scanned {
					for k, tag := range exc.SnippetTags {
						if _, ok := d.Snippets[tag]; !ok {
							problem(diag.KindUnknownSnippetTag, fmt.Sprintf("%s.snippet_tags[%d]", excerpt, k),
								"snippet tag %q not found", tag)
						}
					}
				}

				for k, file := range exc.SnippetFiles {
					if _, ok := d.SnippetFiles[file]; ok {
						continue
					}
					s, err := snippets.LoadFile(d.Root, file)
					if err != nil {
						problem(diag.KindMissingSnippetFile, fmt.Sprintf("%s.snippet_files[%d]", excerpt, k),
							"snippet file %q not found", file)
						continue
					}
					d.SnippetFiles[file] = s
				}
			}
		}
		d.checkEntities(ex.FileFor(lang), ex.Pos, ex.ID, descriptions)
	}

	d.checkEntities(ex.File, ex.Pos, ex.ID, text)
}

func (d *DocGen) checkEntities(file string, pos metadata.Positions, id string, text map[string]string) {
	for _, at := range sortedKeys(text) {
		for _, name := range d.Entities.Unknown(text[at]) {
			d.Problems.Add(diag.Problem{
				Kind:   diag.KindUnknownEntity,
				File:   file,
				Line:   pos.Line(at),
				ID:     id,
				Detail: fmt.Sprintf("%s: unknown entity &%s;", at, name),
			})
		}
	}
}

// exists reports whether rel names a file or directory under the root.
func (d *DocGen) exists(rel string) bool {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	_, err := os.Stat(filepath.Join(d.Root, filepath.FromSlash(rel)))
	return err == nil
}
