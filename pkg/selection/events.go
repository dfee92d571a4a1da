package selection

import (
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

// Event is an input from a rendering surface.
type Event interface {
	isEvent()
}

// NodeClicked reports a click on a node.
type NodeClicked struct{ Node *graph.Node }

// NodeDragged reports one tick of a node drag.
type NodeDragged struct{ Node *graph.Node }

// LinkClicked reports a click on a link.
type LinkClicked struct{ Link *graph.Link }

// Dismissed reports that the inspector was closed.
type Dismissed struct{}

// SearchSubmitted reports a submitted search term. Choosing a suggestion
// submits that suggestion.
type SearchSubmitted struct{ Term string }

func (NodeClicked) isEvent()     {}
func (NodeDragged) isEvent()     {}
func (LinkClicked) isEvent()     {}
func (Dismissed) isEvent()       {}
func (SearchSubmitted) isEvent() {}

// Dispatch applies ev. Only a search can fail.
func (c *Controller) Dispatch(ev Event) error {
	switch e := ev.(type) {
	case NodeClicked:
		c.NodeClick(e.Node)
	case NodeDragged:
		c.NodeDrag(e.Node)
	case LinkClicked:
		c.LinkClick(e.Link)
	case Dismissed:
		c.Dismiss()
	case SearchSubmitted:
		return c.Search(e.Term)
	default:
		return kgerrors.New(kgerrors.ErrCodeInvalidInput, "unknown event %T", ev)
	}
	return nil
}
