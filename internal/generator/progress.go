package generator

import (
	"github.com/schollz/progressbar/v3"

	"subvox/internal/pipeline"
)

// observer returns a progress bar callback for one pipeline stage, or nil when
// progress output is disabled or there is nothing to count.
func (g *Generator) observer(total int, label string) pipeline.Observer {
	if g.progressOut == nil || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(g.progressOut),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func(done, _ int) {
		_ = bar.Set(done)
	}
}
