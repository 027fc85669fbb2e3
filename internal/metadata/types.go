// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package metadata

import "strings"

// Link is a titled URL, used for guide topics and service guides.
type Link struct {
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Expanded holds the long and short forms used on first mention.
type Expanded struct {
	Long  string `yaml:"long,omitempty" json:"long,omitempty"`
	Short string `yaml:"short,omitempty" json:"short,omitempty"`
}

// Service is one entry of services.yaml. Name is the map key (the slug).
type Service struct {
	Name     string              `yaml:"-" json:"name"`
	Long     string              `yaml:"long" json:"long" validate:"required,aws_entity"`
	Short    string              `yaml:"short" json:"short" validate:"required,aws_entity"`
	Sort     string              `yaml:"sort" json:"sort" validate:"required"`
	Version  string              `yaml:"version" json:"version" validate:"required"`
	Expanded *Expanded           `yaml:"expanded,omitempty" json:"expanded,omitempty"`
	Blurb    string              `yaml:"blurb,omitempty" json:"blurb,omitempty" validate:"omitempty,end_punc"`
	Guide    *Link               `yaml:"guide,omitempty" json:"guide,omitempty"`
	APIRef   string              `yaml:"api_ref,omitempty" json:"api_ref,omitempty"`
	Tags     map[string][]string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Bundle   string              `yaml:"bundle,omitempty" json:"bundle,omitempty"`

	Pos Positions `yaml:"-" json:"-"`
}

// APIRefTemplate describes how SDK API reference links are built.
type APIRefTemplate struct {
	UID          string `yaml:"uid,omitempty" json:"uid,omitempty"`
	Name         string `yaml:"name,omitempty" json:"name,omitempty"`
	LinkTemplate string `yaml:"link_template,omitempty" json:"link_template,omitempty"`
}

// TitleOverride replaces the generated README title.
type TitleOverride struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	TitleAbbrev string `yaml:"title_abbrev,omitempty" json:"title_abbrev,omitempty"`
}

// DefaultReadmeFolder is used when an SDK version does not name its own
// README folder. It is a text/template over ReadmeFolderData.
const DefaultReadmeFolder = "{{.Property}}/example_code/{{.Service}}"

// SDKVersion is one major version of a language SDK.
type SDKVersion struct {
	Long          string          `yaml:"long" json:"long" validate:"required"`
	Short         string          `yaml:"short" json:"short" validate:"required"`
	Expanded      *Expanded       `yaml:"expanded,omitempty" json:"expanded,omitempty"`
	Guide         string          `yaml:"guide" json:"guide" validate:"required"`
	APIRef        *APIRefTemplate `yaml:"api_ref,omitempty" json:"api_ref,omitempty"`
	Caveat        string          `yaml:"caveat,omitempty" json:"caveat,omitempty"`
	BookmarkCode  string          `yaml:"bookmark_code,omitempty" json:"bookmark_code,omitempty"`
	TitleOverride *TitleOverride  `yaml:"title_override,omitempty" json:"title_override,omitempty"`
	ReadmeFolder  string          `yaml:"readme_folder,omitempty" json:"readme_folder,omitempty"`
}

// SDK is one entry of sdks.yaml. Name is the map key (the language name).
type SDK struct {
	Name     string             `yaml:"-" json:"name"`
	Property string             `yaml:"property" json:"property" validate:"required,lowercase"`
	Syntax   string             `yaml:"syntax,omitempty" json:"syntax,omitempty"`
	Versions map[int]SDKVersion `yaml:"sdk" json:"sdk" validate:"required,min=1,dive,keys,min=1,endkeys,required"`

	Pos Positions `yaml:"-" json:"-"`
}

// Excerpt is one described piece of code inside an example version.
type Excerpt struct {
	Description  string   `yaml:"description,omitempty" json:"description,omitempty" validate:"omitempty,end_punc"`
	SnippetTags  []string `yaml:"snippet_tags,omitempty" json:"snippet_tags,omitempty" validate:"dive,required"`
	SnippetFiles []string `yaml:"snippet_files,omitempty" json:"snippet_files,omitempty" validate:"dive,required"`
}

// Version is the part of an example implemented against one SDK version.
type Version struct {
	SDKVersion         int                  `yaml:"sdk_version" json:"sdk_version" validate:"required,min=1"`
	GitHub             string               `yaml:"github,omitempty" json:"github,omitempty"`
	GitHubName         string               `yaml:"github_name,omitempty" json:"github_name,omitempty"`
	GitHubNoteAtBottom bool                 `yaml:"github_note_at_bottom,omitempty" json:"github_note_at_bottom,omitempty"`
	BlockContent       string               `yaml:"block_content,omitempty" json:"block_content,omitempty" validate:"omitempty,cross_file"`
	Excerpts           []Excerpt            `yaml:"excerpts,omitempty" json:"excerpts,omitempty" validate:"dive"`
	AddServices        map[string]ActionSet `yaml:"add_services,omitempty" json:"add_services,omitempty" validate:"dive,keys,service_name,endkeys"`
	Owner              *Link                `yaml:"owner,omitempty" json:"owner,omitempty"`
}

// Language lists the versions of an example written in one language.
type Language struct {
	Versions []Version `yaml:"versions" json:"versions" validate:"required,min=1,dive"`

	// File is set when the language was merged in from another metadata
	// file than the example's own.
	File string `yaml:"-" json:"-"`
}

// Example is one entry of a *_metadata.yaml file. ID is the map key.
type Example struct {
	ID           string               `yaml:"-" json:"id" validate:"example_id"`
	File         string               `yaml:"-" json:"file"`
	Title        string               `yaml:"title,omitempty" json:"title,omitempty" validate:"omitempty,upper_start,no_end_punc,aws_entity"`
	TitleAbbrev  string               `yaml:"title_abbrev,omitempty" json:"title_abbrev,omitempty" validate:"omitempty,upper_start,no_end_punc,aws_entity"`
	Synopsis     string               `yaml:"synopsis,omitempty" json:"synopsis,omitempty" validate:"omitempty,end_punc_or_colon,aws_entity"`
	SynopsisList []string             `yaml:"synopsis_list,omitempty" json:"synopsis_list,omitempty" validate:"dive,upper_start,end_punc,aws_entity"`
	ExplicitCat  string               `yaml:"category,omitempty" json:"explicit_category,omitempty"`
	GuideTopic   *Link                `yaml:"guide_topic,omitempty" json:"guide_topic,omitempty"`
	Languages    map[string]Language  `yaml:"languages" json:"languages" validate:"required,min=1,dive,keys,language,endkeys,required"`
	Services     map[string]ActionSet `yaml:"services,omitempty" json:"services,omitempty" validate:"dive,keys,service_name,endkeys"`

	Pos Positions `yaml:"-" json:"-"`
}

// Positions maps a YAML path inside a record (for example
// `languages[Go].versions[0].sdk_version`) to its line in the source file.
// The empty path is the record itself.
type Positions map[string]int

// Line returns the line recorded for path, falling back to the closest
// recorded ancestor and finally the record line.
func (p Positions) Line(path string) int {
	for path != "" {
		if l, ok := p[path]; ok {
			return l
		}
		i := max(strings.LastIndexAny(path, ".["), 0)
		path = path[:i]
	}
	return p[""]
}
