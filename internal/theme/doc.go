// Package theme handles the two-valued visual mode (dark or light), its
// persisted preference, and the colour palette each mode maps to.
package theme
