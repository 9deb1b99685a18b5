// Package collage implements the randomized photo grid.
//
// The Sampler keeps a fixed-size grid of indices into a pool of images and
// redraws it periodically: a uniform Fisher-Yates permutation supplies the
// first min(grid, pool) tiles and any remaining tiles are independent uniform
// draws. Consecutive grids may repeat.
package collage
