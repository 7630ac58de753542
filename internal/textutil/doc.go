// Package textutil cleans free text for use in file names.
package textutil
