package workers

import "log"

// RegionSaverWorker renders a filename from a template and writes each
// detection's region to it, per spec.md §4.G "Region saver" ("For each
// message, renders a filename from a template using {id}, {start}, {end},
// {duration} placeholders and writes the region").
//
// Grounded on RegionSaverWorker in original_source/auditok/workers.py.
type RegionSaverWorker struct {
	*base
	filenameFormat string
	audioFormat    string
	logger         *log.Logger
}

// NewRegionSaverWorker constructs and starts a RegionSaverWorker.
// audioFormat is passed through to Region.Save ("" lets Save infer the
// format from filenameFormat's extension).
func NewRegionSaverWorker(filenameFormat, audioFormat string, logger *log.Logger) *RegionSaverWorker {
	w := &RegionSaverWorker{filenameFormat: filenameFormat, audioFormat: audioFormat, logger: logger}
	w.base = newBase(DefaultTimeout, w.processMessage, nil)
	return w
}

func (w *RegionSaverWorker) processMessage(msg Message) {
	det := msg.Detection
	filename := renderTemplate(w.filenameFormat, nil, map[string]float64{
		"id":       float64(det.ID),
		"start":    det.Start,
		"end":      det.End,
		"duration": det.Duration,
	})
	savedPath, err := msg.Region.Save(filename, w.audioFormat)
	if err != nil {
		if w.logger != nil {
			w.logger.Printf("[SAVE]: detection %d: error saving to %q: %v", det.ID, filename, err)
		}
		return
	}
	if w.logger != nil {
		w.logger.Printf("[SAVE]: detection %d saved as %q", det.ID, savedPath)
	}
}
