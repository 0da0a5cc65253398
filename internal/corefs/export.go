package corefs

import (
	"fmt"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Export copies every regular file of src into dst under the same path and
// returns the number of files written.
func Export(src, dst billy.Filesystem) (int, error) {
	copied := 0
	err := util.Walk(src, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		data, err := util.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if dir := path.Dir(p); dir != "/" && dir != "." {
			if err := dst.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		if err := util.WriteFile(dst, p, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("export: %w", err)
	}
	return copied, nil
}
