package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/bbidwell85/Totality-sub002/domain/model"
)

// renderer prints per-file summaries, styled when stdout is a TTY and
// plain when piped.
type renderer struct {
	out io.Writer

	pathStyle  lipgloss.Style
	okStyle    lipgloss.Style
	failStyle  lipgloss.Style
	labelStyle lipgloss.Style
}

func newRenderer(out io.Writer) *renderer {
	r := &renderer{out: out}

	styled := false
	if f, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	if styled {
		r.pathStyle = lipgloss.NewStyle().Bold(true)
		r.okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		r.failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		r.labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	return r
}

func (r *renderer) renderResult(res *model.FileAnalysisResult) {
	fmt.Fprintln(r.out, r.pathStyle.Render(res.FilePath))

	if !res.Success {
		fmt.Fprintf(r.out, "  %s %s\n", r.failStyle.Render("FAILED"), res.Error)
		return
	}

	fmt.Fprintf(r.out, "  %s container=%s%s\n",
		r.okStyle.Render("OK"), res.Container, r.containerDetails(res))

	if v := res.Video; v != nil {
		fmt.Fprintf(r.out, "  %s %s\n", r.labelStyle.Render("video:"), videoLine(v))
	}
	for i := range res.AudioTracks {
		fmt.Fprintf(r.out, "  %s %s\n", r.labelStyle.Render("audio:"), audioLine(&res.AudioTracks[i]))
	}
	for i := range res.SubtitleTracks {
		fmt.Fprintf(r.out, "  %s %s\n", r.labelStyle.Render("sub:  "), subtitleLine(&res.SubtitleTracks[i]))
	}
	if res.Artwork != nil {
		fmt.Fprintf(r.out, "  %s %s (stream %d)\n",
			r.labelStyle.Render("art:  "), res.Artwork.MIMEType, res.Artwork.StreamIndex)
	}
}

func (r *renderer) containerDetails(res *model.FileAnalysisResult) string {
	var parts []string
	if res.DurationMs != nil {
		parts = append(parts, fmt.Sprintf("duration=%.1fs", float64(*res.DurationMs)/1000))
	}
	if res.FileSizeBytes != nil {
		parts = append(parts, fmt.Sprintf("size=%.1fMB", float64(*res.FileSizeBytes)/(1024*1024)))
	}
	if res.OverallBitrateKbps != nil {
		parts = append(parts, fmt.Sprintf("bitrate=%dkbps", *res.OverallBitrateKbps))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func videoLine(v *model.VideoAttributes) string {
	parts := []string{fmt.Sprintf("%s %dx%d", v.Codec, v.Width, v.Height)}
	if v.FrameRate != nil {
		parts = append(parts, fmt.Sprintf("%.2ffps", *v.FrameRate))
	}
	if v.BitrateKbps != nil {
		parts = append(parts, fmt.Sprintf("%dkbps", *v.BitrateKbps))
	}
	if v.BitDepth != nil {
		parts = append(parts, fmt.Sprintf("%d-bit", *v.BitDepth))
	}
	if v.HDRFormat != "" {
		parts = append(parts, string(v.HDRFormat))
	}
	return strings.Join(parts, " ")
}

func audioLine(a *model.AudioAttributes) string {
	parts := []string{fmt.Sprintf("%s %dch", a.Codec, a.Channels)}
	if a.BitrateKbps != nil {
		parts = append(parts, fmt.Sprintf("%dkbps", *a.BitrateKbps))
	}
	if a.Language != "" {
		parts = append(parts, a.Language)
	}
	if a.HasObjectAudio {
		parts = append(parts, "object-audio")
	}
	if a.IsDefault {
		parts = append(parts, "(default)")
	}
	return strings.Join(parts, " ")
}

func subtitleLine(s *model.SubtitleAttributes) string {
	parts := []string{s.Codec}
	if s.Language != "" {
		parts = append(parts, s.Language)
	}
	if s.IsForced {
		parts = append(parts, "forced")
	}
	if s.IsDefault {
		parts = append(parts, "(default)")
	}
	return strings.Join(parts, " ")
}
