// Package render groups the static renderers of kgview.
//
// The interactive surfaces (the browser and the terminal explorer) draw the
// graph themselves and only ask the core for colors and label visibility.
// Static output, such as a snapshot to attach to a ticket, is produced here.
//
// The [nodelink] subpackage renders a highlighted graph as a Graphviz
// node-link diagram in SVG.
//
// [nodelink]: github.com/matzehuels/kgview/pkg/render/nodelink
package render
