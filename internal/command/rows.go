// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"sort"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/readme"
)

// The row types are what the query commands marshal as JSON:API payloads.
// Their attr names are what --attrs, --filter and --sort refer to.

type exampleRow struct {
	ID          string   `jsonapi:"primary,examples"`
	Title       string   `jsonapi:"attr,title"`
	TitleAbbrev string   `jsonapi:"attr,title-abbrev"`
	Category    string   `jsonapi:"attr,category"`
	Synopsis    string   `jsonapi:"attr,synopsis"`
	File        string   `jsonapi:"attr,file"`
	Languages   []string `jsonapi:"attr,languages"`
	SDKs        []string `jsonapi:"attr,sdks"`
	Services    []string `jsonapi:"attr,services"`
	Actions     []string `jsonapi:"attr,actions"`
	Snippets    []string `jsonapi:"attr,snippets"`
	Versions    int      `jsonapi:"attr,versions"`
}

type serviceRow struct {
	ID       string `jsonapi:"primary,services"`
	Short    string `jsonapi:"attr,short"`
	Long     string `jsonapi:"attr,long"`
	Sort     string `jsonapi:"attr,sort"`
	Version  string `jsonapi:"attr,version"`
	Blurb    string `jsonapi:"attr,blurb"`
	Guide    string `jsonapi:"attr,guide"`
	APIRef   string `jsonapi:"attr,api-ref"`
	Bundle   string `jsonapi:"attr,bundle"`
	Examples int    `jsonapi:"attr,examples"`
}

type sdkRow struct {
	ID       string `jsonapi:"primary,sdks"`
	Property string `jsonapi:"attr,property"`
	Syntax   string `jsonapi:"attr,syntax"`
	Versions []int  `jsonapi:"attr,versions"`
	Short    string `jsonapi:"attr,short"`
	Long     string `jsonapi:"attr,long"`
	Services int    `jsonapi:"attr,services"`
}

type problemRow struct {
	ID         string `jsonapi:"primary,problems"`
	Kind       string `jsonapi:"attr,kind"`
	Location   string `jsonapi:"attr,location"`
	File       string `jsonapi:"attr,file"`
	Line       int    `jsonapi:"attr,line"`
	Example    string `jsonapi:"attr,example"`
	Language   string `jsonapi:"attr,language"`
	SDKVersion int    `jsonapi:"attr,sdk-version"`
	Detail     string `jsonapi:"attr,detail"`
}

type readmeRow struct {
	ID         string `jsonapi:"primary,readmes"`
	Language   string `jsonapi:"attr,language"`
	SDKVersion int    `jsonapi:"attr,sdk-version"`
	Service    string `jsonapi:"attr,service"`
	Status     string `jsonapi:"attr,status"`
	Bytes      int    `jsonapi:"attr,bytes"`
}

func exampleRows(d *docgen.DocGen) []*exampleRow {
	ids := make([]string, 0, len(d.Examples))
	for id := range d.Examples {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]*exampleRow, 0, len(ids))
	for _, id := range ids {
		ex := d.Examples[id]
		row := &exampleRow{
			ID:          id,
			Title:       d.Expand(ex.Title),
			TitleAbbrev: d.Expand(ex.TitleAbbrev),
			Category:    ex.Category(),
			Synopsis:    d.Expand(ex.Synopsis),
			File:        ex.File,
			Languages:   []string{},
			SDKs:        []string{},
			Services:    []string{},
			Actions:     []string{},
			Snippets:    []string{},
		}

		langs := make([]string, 0, len(ex.Languages))
		for lang := range ex.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)

		for _, lang := range langs {
			row.Languages = append(row.Languages, lang)
			for _, v := range ex.Languages[lang].Versions {
				row.Versions++
				row.SDKs = append(row.SDKs, fmt.Sprintf("%s:%d", lang, v.SDKVersion))
				for _, e := range v.Excerpts {
					row.Snippets = append(row.Snippets, e.SnippetTags...)
					row.Snippets = append(row.Snippets, e.SnippetFiles...)
				}
			}
		}

		svcs := make([]string, 0, len(ex.Services))
		for svc := range ex.Services {
			svcs = append(svcs, svc)
		}
		sort.Strings(svcs)
		for _, svc := range svcs {
			row.Services = append(row.Services, svc)
			for _, action := range ex.Services[svc] {
				row.Actions = append(row.Actions, svc+":"+action)
			}
		}

		rows = append(rows, row)
	}
	return rows
}

func serviceRows(d *docgen.DocGen) []*serviceRow {
	counts := make(map[string]int)
	for _, ex := range d.Examples {
		for svc := range ex.Services {
			counts[svc]++
		}
	}

	names := make([]string, 0, len(d.Services))
	for name := range d.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]*serviceRow, 0, len(names))
	for _, name := range names {
		svc := d.Services[name]
		row := &serviceRow{
			ID:       name,
			Short:    d.Expand(svc.Short),
			Long:     d.Expand(svc.Long),
			Sort:     svc.Sort,
			Version:  svc.Version,
			Blurb:    d.Expand(svc.Blurb),
			APIRef:   svc.APIRef,
			Bundle:   svc.Bundle,
			Examples: counts[name],
		}
		if svc.Guide != nil {
			row.Guide = svc.Guide.URL
		}
		rows = append(rows, row)
	}
	return rows
}

func sdkRows(d *docgen.DocGen) []*sdkRow {
	langs := d.Languages()
	rows := make([]*sdkRow, 0, len(langs))
	for _, lang := range langs {
		sdk := d.SDKs[lang]
		row := &sdkRow{
			ID:       lang,
			Property: sdk.Property,
			Syntax:   sdk.Syntax,
			Versions: d.Versions(lang),
		}

		services := make(map[string]bool)
		for _, v := range row.Versions {
			for _, svc := range d.ServicesFor(lang, v) {
				services[svc] = true
			}
		}
		row.Services = len(services)

		// Names come from the newest version.
		if n := len(row.Versions); n > 0 {
			latest := sdk.Versions[row.Versions[n-1]]
			row.Short = d.Expand(latest.Short)
			row.Long = d.Expand(latest.Long)
		}
		rows = append(rows, row)
	}
	return rows
}

func problemRows(problems []diag.Problem) []*problemRow {
	rows := make([]*problemRow, 0, len(problems))
	for i, p := range problems {
		rows = append(rows, &problemRow{
			ID:         fmt.Sprintf("%d", i+1),
			Kind:       string(p.Kind),
			Location:   p.Location(),
			File:       p.File,
			Line:       p.Line,
			Example:    p.ID,
			Language:   p.Language,
			SDKVersion: p.SDKVersion,
			Detail:     p.Detail,
		})
	}
	return rows
}

func readmeRows(results []readme.Result) []*readmeRow {
	rows := make([]*readmeRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, &readmeRow{
			ID:         res.Path,
			Language:   res.Target.Language,
			SDKVersion: res.Target.SDKVersion,
			Service:    res.Target.Service,
			Status:     string(res.Status),
			Bytes:      len(res.Content),
		})
	}
	return rows
}
