package dots

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dots/pkg/config"
	"github.com/arthur-debert/dots/pkg/fileops"
	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/arthur-debert/dots/pkg/walker"
)

// rootTag travels with every walker root so that each entry knows which
// bundle and action it belongs to.
type rootTag struct {
	Bundle string
	Op     Operation
	Hard   bool
}

// newWalker registers every cp and ln source of the selected bundles, in
// bundle then declaration order. op replaces the action's own operation
// when set.
func (d *Dots) newWalker(op Operation) *walker.Walker[rootTag] {
	w := walker.New[rootTag](d.fs, walker.WithIgnore(d.opts.Ignore...))
	for _, b := range d.bundles {
		for _, a := range b.Actions {
			switch a := a.(type) {
			case *config.Copy:
				w.Add(a.Source, a.Destination, rootTag{Bundle: b.Name, Op: pick(op, OpCopy)})
			case *config.Link:
				w.Add(a.Source, a.Destination, rootTag{Bundle: b.Name, Op: pick(op, OpLink), Hard: a.Hard || d.opts.HardLinks})
			}
		}
	}
	return w
}

func pick(override, own Operation) Operation {
	if override != "" {
		return override
	}
	return own
}

// Install copies and links every cp and ln entry of the selected bundles.
// Each entry is applied independently; failures are recorded and the walk
// continues.
func (d *Dots) Install() (*Report, error) {
	defer logging.LogOperationStart(d.logger, "install")()

	copyOp := fileops.CopyOp{FS: d.fs, DryRun: d.opts.DryRun, Force: d.opts.Force}
	report := &Report{Command: "install", DryRun: d.opts.DryRun}

	err := d.newWalker("").Walk(func(e walker.Entry[rootTag]) error {
		item := fileops.Item{Source: e.Path, Destination: e.Destination, IsDir: e.IsDir}
		var res fileops.Result
		switch e.Tag.Op {
		case OpCopy:
			res = copyOp.Apply(item)
		case OpLink:
			res = fileops.LinkOp{FS: d.fs, DryRun: d.opts.DryRun, Force: d.opts.Force, Hard: e.Tag.Hard}.Apply(item)
		}
		d.record(report, e, res)
		return nil
	})
	return report, err
}

// Uninstall removes the destination of every file a cp or ln entry of the
// selected bundles would install. Directories are left in place.
func (d *Dots) Uninstall() (*Report, error) {
	defer logging.LogOperationStart(d.logger, "uninstall")()

	removeOp := fileops.RemoveOp{FS: d.fs, DryRun: d.opts.DryRun}
	report := &Report{Command: "uninstall", DryRun: d.opts.DryRun}

	err := d.newWalker(OpRemove).Walk(func(e walker.Entry[rootTag]) error {
		if e.IsDir {
			return nil
		}
		res := removeOp.Apply(fileops.Item{Source: e.Path, Destination: e.Destination})
		d.record(report, e, res)
		return nil
	})
	return report, err
}

func (d *Dots) record(report *Report, e walker.Entry[rootTag], res fileops.Result) {
	report.Entries = append(report.Entries, EntryResult{
		Bundle:      e.Tag.Bundle,
		Op:          e.Tag.Op,
		Source:      e.Path,
		Destination: e.Destination,
		Depth:       e.Depth,
		IsDir:       e.IsDir,
		Result:      res,
	})

	var ev *zerolog.Event
	if err := res.Failed(); err != nil {
		ev = d.logger.Error().Err(err)
	} else {
		ev = d.logger.Info()
	}
	fileType := "file"
	if e.IsDir {
		fileType = "dir"
	}
	ev.Str("src", e.Path).
		Str("dst", e.Destination).
		Int("depth", e.Depth).
		Str("file_type", fileType).
		Str("bundle", e.Tag.Bundle).
		Str("op", string(e.Tag.Op)).
		Str("result", res.String()).
		Msg(string(e.Tag.Op))
}
