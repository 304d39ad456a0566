package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/fiberparty/fauxdom"
	"github.com/delaneyj/fiberparty/fiber"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	widthKey   = "width"
	depthKey   = "depth"
	reorderKey = "reorder"
)

func main() {
	cmd := &cli.Command{
		Name:  "fibertrace",
		Usage: "Trace 🧵 fiber walks and the host mutations they commit",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  widthKey,
				Usage: "Branches under the traced root",
				Value: 3,
			},
			&cli.UintFlag{
				Name:  depthKey,
				Usage: "Depth of each branch",
				Value: 2,
			},
			&cli.BoolFlag{
				Name:  reorderKey,
				Usage: "Trace a keyed reorder pass after the mount",
				Value: true,
			},
		},
		Action: trace,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func trace(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Tracing fiber walks started!")
	defer func() {
		log.Printf("Tracing fiber walks finished in %v", time.Since(start))
	}()

	width := int(cmd.Uint(widthKey))
	depth := int(cmd.Uint(depthKey))

	host := &recordingHost{}
	rec := fauxdom.NewReconciler(host)
	walks := &recordingRenderer{inner: rec}
	sys := fiber.CreateRenderSystem(walks, nil, func(err error) {
		log.Fatal(err)
	})
	container := &fauxdom.Container{}
	root := fauxdom.CreateRoot(sys, rec, container)

	root.Render(tree(width, depth, 0))
	renderTables("mount", walks.drain(), host.drain())

	if cmd.Bool(reorderKey) {
		root.Render(tree(width, depth, 1))
		renderTables("keyed reorder", walks.drain(), host.drain())
	}

	log.Printf("Final tree: %s", container.HTML())
	return nil
}

func renderTables(pass string, steps []walkStep, ops []hostOp) {
	log.Printf("%s pass: %s walk steps, %s host mutations",
		pass, humanize.Comma(int64(len(steps))), humanize.Comma(int64(len(ops))))

	walk := tablewriter.NewWriter(os.Stdout)
	walk.SetHeader([]string{"#", "phase", "node", "flags", "subtree"})
	for i, s := range steps {
		walk.Append([]string{
			strconv.Itoa(i + 1), // step
			s.phase,             // begin or complete
			s.node,
			s.flags,
			s.subtree,
		})
	}
	walk.Render() // Send output

	if len(ops) == 0 {
		return
	}
	muts := tablewriter.NewWriter(os.Stdout)
	muts.SetHeader([]string{"#", "op", "node", "detail"})
	for i, op := range ops {
		muts.Append([]string{
			strconv.Itoa(i + 1),
			op.op,
			op.target,
			op.detail,
		})
	}
	muts.Render()
}

// tree builds a keyed tree of the requested shape. rotation shifts which
// branch lands in which slot so a second render with rotation 1 is a pure
// keyed move of otherwise identical subtrees.
func tree(width, depth, rotation int) fauxdom.Element {
	kids := make([]fauxdom.Element, 0, width)
	for i := 0; i < width; i++ {
		at := (i + rotation) % width
		kids = append(kids, branch(at, depth-1))
	}
	return fauxdom.El("div", fauxdom.A{"id": "trace"}, kids...)
}

func branch(id, depth int) fauxdom.Element {
	key := "b" + strconv.Itoa(id)
	label := fauxdom.Text("branch " + strconv.Itoa(id))
	if depth <= 0 {
		return fauxdom.Keyed("span", key, fauxdom.A{"id": key, "class": "leaf"}, label)
	}
	return fauxdom.Keyed("div", key, fauxdom.A{"id": key, "class": "branch"},
		label,
		branch(id*2+1, depth-1),
		branch(id*2+2, depth-1),
	)
}

type walkStep struct {
	phase   string
	node    string
	flags   string
	subtree string
}

// recordingRenderer wraps the real renderer and journals every walk step
// after it runs, flags included, so the tables show what each phase left
// behind on the node.
type recordingRenderer struct {
	inner fiber.Renderer
	steps []walkStep
}

func (r *recordingRenderer) BeginWork(wip *fiber.Fiber) (*fiber.Fiber, error) {
	next, err := r.inner.BeginWork(wip)
	r.steps = append(r.steps, walkStep{
		phase:   "begin",
		node:    describeFiber(wip),
		flags:   flagNames(wip.Flags),
		subtree: flagNames(wip.SubtreeFlags),
	})
	return next, err
}

func (r *recordingRenderer) CompleteWork(wip *fiber.Fiber) error {
	err := r.inner.CompleteWork(wip)
	r.steps = append(r.steps, walkStep{
		phase:   "complete",
		node:    describeFiber(wip),
		flags:   flagNames(wip.Flags),
		subtree: flagNames(wip.SubtreeFlags),
	})
	return err
}

func (r *recordingRenderer) CommitMutationEffects(finished *fiber.Fiber) error {
	return r.inner.CommitMutationEffects(finished)
}

func (r *recordingRenderer) drain() []walkStep {
	steps := r.steps
	r.steps = nil
	return steps
}

func describeFiber(f *fiber.Fiber) string {
	switch f.Tag {
	case fiber.HostRoot:
		return "root"
	case fiber.HostText:
		el, ok := f.PendingProps.(fauxdom.Element)
		if !ok {
			return "text"
		}
		return strconv.Quote(el.Text)
	default:
		kind, _ := f.ElemType.(string)
		if f.Key != "" {
			return "<" + kind + "> key=" + f.Key
		}
		return "<" + kind + ">"
	}
}

func flagNames(flags fiber.Flags) string {
	if flags == fiber.NoFlags {
		return "-"
	}
	var parts []string
	if flags&fiber.Placement != 0 {
		parts = append(parts, "placement")
	}
	if flags&fiber.Update != 0 {
		parts = append(parts, "update")
	}
	if flags&fiber.ChildDeletion != 0 {
		parts = append(parts, "deletion")
	}
	return strings.Join(parts, "+")
}

type hostOp struct {
	op     string
	target string
	detail string
}

// recordingHost journals every mutation on its way into the memory host.
type recordingHost struct {
	fauxdom.MemoryHost
	ops []hostOp
}

func (h *recordingHost) CreateInstance(kind string, attrs map[string]string) any {
	n := h.MemoryHost.CreateInstance(kind, attrs)
	h.record("create", nodeLabel(n), attrSummary(attrs))
	return n
}

func (h *recordingHost) CreateTextInstance(text string) any {
	n := h.MemoryHost.CreateTextInstance(text)
	h.record("create-text", nodeLabel(n), "")
	return n
}

func (h *recordingHost) AppendChild(parent, child any) {
	h.MemoryHost.AppendChild(parent, child)
	h.record("append", nodeLabel(child), "into "+nodeLabel(parent))
}

func (h *recordingHost) InsertBefore(parent, child, before any) {
	h.MemoryHost.InsertBefore(parent, child, before)
	h.record("insert", nodeLabel(child), "into "+nodeLabel(parent)+" before "+nodeLabel(before))
}

func (h *recordingHost) RemoveChild(parent, child any) {
	h.MemoryHost.RemoveChild(parent, child)
	h.record("remove", nodeLabel(child), "from "+nodeLabel(parent))
}

func (h *recordingHost) CommitUpdate(instance any, attrs map[string]string) {
	h.MemoryHost.CommitUpdate(instance, attrs)
	h.record("update", nodeLabel(instance), attrSummary(attrs))
}

func (h *recordingHost) CommitTextUpdate(instance any, text string) {
	h.MemoryHost.CommitTextUpdate(instance, text)
	h.record("update-text", nodeLabel(instance), "")
}

func (h *recordingHost) AppendToContainer(container, child any) {
	h.MemoryHost.AppendToContainer(container, child)
	h.record("append", nodeLabel(child), "into "+nodeLabel(container))
}

func (h *recordingHost) InsertInContainerBefore(container, child, before any) {
	h.MemoryHost.InsertInContainerBefore(container, child, before)
	h.record("insert", nodeLabel(child), "into "+nodeLabel(container)+" before "+nodeLabel(before))
}

func (h *recordingHost) RemoveFromContainer(container, child any) {
	h.MemoryHost.RemoveFromContainer(container, child)
	h.record("remove", nodeLabel(child), "from "+nodeLabel(container))
}

func (h *recordingHost) record(op, target, detail string) {
	h.ops = append(h.ops, hostOp{op: op, target: target, detail: detail})
}

func (h *recordingHost) drain() []hostOp {
	ops := h.ops
	h.ops = nil
	return ops
}

func nodeLabel(v any) string {
	switch n := v.(type) {
	case *fauxdom.Node:
		if n.Kind == "" {
			return strconv.Quote(n.Text)
		}
		if id := n.Attrs["id"]; id != "" {
			return "<" + n.Kind + "#" + id + ">"
		}
		return "<" + n.Kind + ">"
	case *fauxdom.Container:
		return "container"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func attrSummary(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, " ")
}
