package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kodebaseai/kodebase/internal/analyzer"
	"github.com/kodebaseai/kodebase/internal/cascade"
	"github.com/kodebaseai/kodebase/internal/hygiene"
	"github.com/kodebaseai/kodebase/internal/types"
)

// Tree drawing characters
const (
	TreeBranch = "├─ "
	TreeLast   = "└─ "
	TreePipe   = "│  "
	TreeSpace  = "   "
)

// ArtifactLine renders a one-line summary of an artifact: glyph, ID,
// title, and current state.
func ArtifactLine(a *types.Artifact) string {
	state, err := cascade.CurrentState(a)
	if err != nil {
		state = types.StateDraft
	}
	style := StyleForState(state)
	return fmt.Sprintf("%s %s %s %s",
		style.Render(StatusGlyph(state)),
		AccentStyle.Render(a.ID),
		a.Title,
		MutedStyle.Render("["+string(state)+"]"))
}

// Cleanup renders a hygiene cleanup report for one artifact.
func Cleanup(id string, rep hygiene.CleanupReport) string {
	var b strings.Builder
	if rep.Changed {
		fmt.Fprintf(&b, "%s %s\n", WarnStyle.Render(IconWarn), AccentStyle.Render(id))
	} else {
		fmt.Fprintf(&b, "%s %s\n", PassStyle.Render(IconPass), AccentStyle.Render(id))
	}
	for _, line := range rep.Summary {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	for _, d := range rep.Duplicates {
		fmt.Fprintf(&b, "  %s\n", MutedStyle.Render(
			fmt.Sprintf("duplicate: kept event %d, removed event %d (%s)", d.KeptIndex, d.RemovedIndex, d.Rule)))
	}
	for _, o := range rep.Orphans {
		fmt.Fprintf(&b, "  %s\n", MutedStyle.Render(
			fmt.Sprintf("orphan: event %d (%s)", o.Index, o.Reason)))
	}
	return b.String()
}

// Violations renders sequence-validation findings. A clean log renders
// as a single pass line.
func Violations(id string, violations []hygiene.Violation) string {
	var b strings.Builder
	if len(violations) == 0 {
		fmt.Fprintf(&b, "%s %s event log is valid\n", PassStyle.Render(IconPass), AccentStyle.Render(id))
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s %d violation(s)\n", FailStyle.Render(IconFail), AccentStyle.Render(id), len(violations))
	for _, v := range violations {
		fmt.Fprintf(&b, "  %s %s\n", FailStyle.Render(IconFail), v.Message)
		if v.Fix != "" {
			fmt.Fprintf(&b, "    %s\n", MutedStyle.Render("fix: "+v.Fix))
		}
	}
	return b.String()
}

// CompletionCascade renders the advisory outcome of completing one
// artifact.
func CompletionCascade(result *analyzer.CompletionCascadeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", HeaderStyle.Render("Completion cascade for "+result.ArtifactID))

	if len(result.Unblocked) == 0 && len(result.AutoCompletedParents) == 0 && len(result.Errors) == 0 {
		fmt.Fprintf(&b, "  %s\n", MutedStyle.Render("no downstream effects"))
	}

	for _, u := range result.Unblocked {
		fmt.Fprintf(&b, "  %s %s becomes %s\n",
			PassStyle.Render(IconPass), AccentStyle.Render(u.ID), u.NewState)
	}
	for _, p := range result.AutoCompletedParents {
		fmt.Fprintf(&b, "  %s %s cascades to %s (%s)\n",
			PassStyle.Render(IconPass), AccentStyle.Render(p.ID), p.Result.NewState, p.Result.Reason)
	}
	for _, u := range result.SecondaryUnblocked {
		fmt.Fprintf(&b, "  %s %s becomes %s (via parent cascade)\n",
			PassStyle.Render(IconPass), AccentStyle.Render(u.ID), u.NewState)
	}
	for _, id := range result.NotTraversed {
		fmt.Fprintf(&b, "  %s %s\n", WarnStyle.Render(IconWarn),
			MutedStyle.Render(id+" has further ancestors not analyzed"))
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(&b, "  %s %s\n", FailStyle.Render(IconFail), msg)
	}
	return b.String()
}

// Recommend renders the tree-wide work recommendations.
func Recommend(rec analyzer.Recommendations) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Ready to start") + "\n")
	if len(rec.ReadyToStart) == 0 {
		fmt.Fprintf(&b, "  %s\n", MutedStyle.Render("none"))
	}
	for _, id := range rec.ReadyToStart {
		fmt.Fprintf(&b, "  %s %s\n", PassStyle.Render(IconPass), AccentStyle.Render(id))
	}

	b.WriteString(HeaderStyle.Render("Can complete") + "\n")
	if len(rec.CanComplete) == 0 {
		fmt.Fprintf(&b, "  %s\n", MutedStyle.Render("none"))
	}
	for _, id := range rec.CanComplete {
		fmt.Fprintf(&b, "  %s %s all children completed\n", PassStyle.Render(IconPass), AccentStyle.Render(id))
	}

	b.WriteString(HeaderStyle.Render("Blocked") + "\n")
	if len(rec.Blocked) == 0 {
		fmt.Fprintf(&b, "  %s\n", MutedStyle.Render("none"))
	}
	for _, info := range rec.Blocked {
		fmt.Fprintf(&b, "  %s %s waiting on %s\n",
			FailStyle.Render(IconFail), AccentStyle.Render(info.ID), blockerList(info.Blockers))
	}
	return b.String()
}

func blockerList(blockers map[string]types.State) string {
	ids := make([]string, 0, len(blockers))
	for id := range blockers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		state := blockers[id]
		if state == "" {
			parts = append(parts, fmt.Sprintf("%s (missing)", id))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", id, state))
	}
	return strings.Join(parts, ", ")
}

// FullAnalysis renders the whole-tree analysis: totals, cycles, and
// recommendations. Per-artifact completion details are left to the
// single-artifact view.
func FullAnalysis(analysis *analyzer.FullCascadeAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", HeaderStyle.Render(fmt.Sprintf("Analyzed %d artifact(s) in %s",
		analysis.TotalArtifacts, analysis.Elapsed.Round(time.Millisecond))))

	if len(analysis.CircularDependencies) > 0 {
		fmt.Fprintf(&b, "%s circular dependencies: %s\n",
			FailStyle.Render(IconFail), strings.Join(analysis.CircularDependencies, ", "))
	} else {
		fmt.Fprintf(&b, "%s no circular dependencies\n", PassStyle.Render(IconPass))
	}

	b.WriteString(Recommend(analysis.Recommendations))
	return b.String()
}

// Tree renders the artifact hierarchy as an indented tree, roots first,
// children ordered by ID.
func Tree(artifacts map[string]*types.Artifact) string {
	index := types.BuildChildIndex(artifacts)

	var roots []string
	for id := range artifacts {
		if types.ParentID(id) == "" {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	var b strings.Builder
	for _, root := range roots {
		renderNode(&b, root, "", "", artifacts, index)
	}
	return b.String()
}

func renderNode(b *strings.Builder, id, connector, prefix string, artifacts map[string]*types.Artifact, index types.ChildIndex) {
	if a, ok := artifacts[id]; ok {
		fmt.Fprintf(b, "%s%s\n", MutedStyle.Render(connector), ArtifactLine(a))
	} else {
		fmt.Fprintf(b, "%s%s %s\n", MutedStyle.Render(connector), AccentStyle.Render(id), MutedStyle.Render("(missing)"))
	}

	children := index.Children(id)
	for i, child := range children {
		childConnector := prefix + TreeBranch
		childPrefix := prefix + TreePipe
		if i == len(children)-1 {
			childConnector = prefix + TreeLast
			childPrefix = prefix + TreeSpace
		}
		renderNode(b, child, childConnector, childPrefix, artifacts, index)
	}
}
