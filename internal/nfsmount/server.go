// Package nfsmount serves a billy.Filesystem over NFSv3 and mounts it
// read-only with the system mount command.
package nfsmount

import (
	"fmt"
	"log"
	"net"
	"os/exec"
	"runtime"

	billy "github.com/go-git/go-billy/v5"
	nfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"
)

// handleCacheSize bounds the file handle cache of the NFS handler.
const handleCacheSize = 4096

// Server manages the NFS server lifecycle.
type Server struct {
	listener net.Listener
	port     int
}

// NewServer starts an NFS server backed by fs. An addr of "" listens on an
// ephemeral port on all interfaces.
func NewServer(fs billy.Filesystem, addr string) (*Server, error) {
	if addr == "" {
		addr = ":0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("nfs listen %s: %w", addr, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	handler := nfshelper.NewCachingHandler(nfshelper.NewNullAuthHandler(fs), handleCacheSize)
	go func() {
		if err := nfs.Serve(listener, handler); err != nil {
			log.Printf("nfs: serve on port %d stopped: %v", port, err)
		}
	}()

	return &Server{listener: listener, port: port}, nil
}

// Port returns the TCP port the NFS server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Close stops the NFS server by closing the listener.
func (s *Server) Close() error {
	return s.listener.Close()
}

// MountArgs returns the mount command line for goos. Mounts are always
// read-only.
func MountArgs(goos string, port int, mountpoint string) ([]string, error) {
	var opts string
	switch goos {
	case "darwin":
		opts = fmt.Sprintf("port=%d,mountport=%d,vers=3,tcp,locallocks,noresvport,rdonly", port, port)
	case "linux":
		opts = fmt.Sprintf("port=%d,mountport=%d,vers=3,tcp,local_lock=all,nolock,ro", port, port)
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
	return []string{"sudo", "mount", "-t", "nfs", "-o", opts, "localhost:/", mountpoint}, nil
}

// Mount mounts the NFS server listening on port at mountpoint. Requires
// sudo.
func Mount(port int, mountpoint string) error {
	args, err := MountArgs(runtime.GOOS, port, mountpoint)
	if err != nil {
		return err
	}
	cmd := exec.Command(args[0], args[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mount failed: %w\n%s", err, string(output))
	}
	return nil
}

// Unmount unmounts mountpoint.
func Unmount(mountpoint string) error {
	if runtime.GOOS == "darwin" {
		// diskutil does not need sudo for user NFS mounts
		if err := exec.Command("diskutil", "unmount", mountpoint).Run(); err == nil {
			return nil
		}
	}
	output, err := exec.Command("sudo", "umount", mountpoint).CombinedOutput()
	if err != nil {
		return fmt.Errorf("unmount failed: %w\n%s", err, string(output))
	}
	return nil
}
