// Package tsne embeds board games into three dimensions with exact t-SNE.
// The dataset is refreshed weekly and stays in the low tens of thousands of
// rows, so the quadratic exact gradient is fine and keeps the output
// reproducible under a fixed seed.
package tsne
