// Package display provides the live sinks the animation driver pushes frames
// into: a bubbletea terminal view, a raylib window (build tag raylib) and a
// headless sink.
package display
