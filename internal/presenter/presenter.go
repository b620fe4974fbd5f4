// Package presenter turns session state into display output without
// coupling to any particular surface. Sinks are injected; tests record,
// production pushes to the window layer.
package presenter

import (
	"image"
	"strings"
)

// Presenter delivers notices and board frames through injected sinks.
type Presenter struct {
	sendText  func(text string) error
	sendFrame func(frame *image.RGBA) error
}

func NewPresenter(sendText func(text string) error, sendFrame func(frame *image.RGBA) error) *Presenter {
	return &Presenter{
		sendText:  sendText,
		sendFrame: sendFrame,
	}
}

// Board pushes one text line (optional) and one rendered frame
// (optional). Either sink may be nil.
func (p *Presenter) Board(text string, frame *image.RGBA) error {
	if p == nil {
		return nil
	}

	if t := strings.TrimSpace(text); t != "" && p.sendText != nil {
		if err := p.sendText(t); err != nil {
			return err
		}
	}

	if frame != nil && p.sendFrame != nil {
		if err := p.sendFrame(frame); err != nil {
			return err
		}
	}

	return nil
}

// Notice pushes a bare text line.
func (p *Presenter) Notice(text string) error {
	if p == nil || p.sendText == nil {
		return nil
	}
	if t := strings.TrimSpace(text); t != "" {
		return p.sendText(t)
	}
	return nil
}
