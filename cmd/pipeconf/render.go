// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/pipeconf/pipeconf/internal/config"
	"github.com/pipeconf/pipeconf/pkg/configrepo"
	"github.com/pipeconf/pipeconf/pkg/document"
	"github.com/pipeconf/pipeconf/pkg/fixup"
)

// renderCollection writes the result of a run in the requested format.
func renderCollection(w io.Writer, c *configrepo.Collection, format config.OutputFormat, targetVersion int, dir string) error {
	switch format {
	case config.OutputJSON:
		data, err := document.EncodeIndent(c.Response(targetVersion), "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case config.OutputYAML:
		data, err := document.EncodeYAML(c.Response(targetVersion))
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		renderText(w, c, dir)
		return nil
	}
}

func renderText(w io.Writer, c *configrepo.Collection, dir string) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Config repository"), PathStyle.Render(dir))

	envs := c.Environments()
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Environments (%d)", len(envs))))
	if len(envs) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, e := range envs {
		fmt.Fprintf(w, "  %s %s  %s\n", successIcon, PathStyle.Render(e.FileName), definitionName(e.Document))
	}

	pipes := c.Pipelines()
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Pipelines (%d)", len(pipes))))
	if len(pipes) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, p := range pipes {
		fmt.Fprintf(w, "  %s %s  %s %s\n", successIcon, PathStyle.Render(p.FileName),
			definitionName(p.Document), SubtitleStyle.Render("(group "+memberString(p.Document, fixup.GroupKey)+")"))
	}

	errs := c.Errors()
	if len(errs) > 0 {
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Errors (%d)", len(errs))))
		for _, e := range errs {
			fmt.Fprintf(w, "  %s %s\n", errorIcon, PathStyle.Render(e.FileName()))
			fmt.Fprintln(w, reasonStyle.Render(e.Message()))
		}
	}

	fmt.Fprintln(w)
	summary := fmt.Sprintf("%d environment(s), %d pipeline(s), %d error(s)", len(envs), len(pipes), len(errs))
	if len(errs) > 0 {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("!"), summary)
		return
	}
	fmt.Fprintf(w, "%s %s\n", successIcon, summary)
}

// definitionName returns the definition's "name" member, or a placeholder.
func definitionName(v document.Value) string {
	if name := memberString(v, "name"); name != "" {
		return name
	}
	return SubtitleStyle.Render("(unnamed)")
}

func memberString(v document.Value, key string) string {
	obj, ok := v.(*document.Object)
	if !ok {
		return ""
	}
	member, _ := obj.Get(key)
	if s, ok := member.(document.String); ok {
		return string(s)
	}
	return ""
}
