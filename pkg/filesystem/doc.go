// Package filesystem provides the filesystems file operations run against.
//
// FS extends afero.Fs with the link operations dotfile installation needs.
// NewOS is backed by the real filesystem; NewMem is an in-memory filesystem
// for tests where links are simulated.
package filesystem
