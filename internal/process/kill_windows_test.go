//go:build windows

package process

import "syscall"

func sysProcAttrHasOwnGroup(attr *syscall.SysProcAttr) bool {
	return attr.CreationFlags&syscall.CREATE_NEW_PROCESS_GROUP != 0
}
