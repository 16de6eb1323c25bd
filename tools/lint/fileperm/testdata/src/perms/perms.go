package perms

import "os"

const modelPerm = 0o600

type memFS struct{}

func (memFS) WriteFile(name string, data []byte, perm os.FileMode) error { return nil }

func writeModels(dir string, data []byte) {
	_ = os.WriteFile(dir+"/a.yaml", data, 0o600) // want `use fileutil.ReadWriteUserPermission instead of hardcoded permission 0o600`
	_ = os.WriteFile(dir+"/b.yaml", data, 0644)  // want `use fileutil.ReadWriteUserReadOthers instead of hardcoded permission 0644`
	_ = os.MkdirAll(dir, 0o755)                  // want `use fileutil.ReadWriteExecuteUserReadExecuteOthers instead of hardcoded permission 0o755`
	_ = os.Chmod(dir, 0o700)
	_ = os.WriteFile(dir+"/c.yaml", data, modelPerm)
	_ = memFS{}.WriteFile(dir+"/d.yaml", data, 0o600) // want `use fileutil.ReadWriteUserPermission`
	_, _ = os.ReadFile(dir + "/a.yaml")
}
