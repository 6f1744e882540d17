//go:build !unix

package toolpath

func checkExecutable(path string) error {
	return nil
}
