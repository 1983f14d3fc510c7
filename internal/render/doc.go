// Package render composes curves and colors into frames and draws them.
//
// A [Frame] carries everything needed to draw one timestep against a [Viewport]
// that is fixed for the whole run. Frames can be drawn three ways:
//
//   - [Rasterizer]: RGBA images for video and GIF encoding
//   - [Canvas]: Braille sub-pixel canvas for terminal display
//   - [FrameSVG]: standalone SVG documents
//
// None of them autoscale: a given (x, y) always lands on the same pixel.
package render
