//go:build !windows

package process

import "syscall"

func sysProcAttrHasOwnGroup(attr *syscall.SysProcAttr) bool {
	return attr.Setpgid
}
