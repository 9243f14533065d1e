// Command ptp-cli is an interactive command-line client for a PTP/USB
// imaging device: open a session, list storages and objects, pull an
// object's bytes to disk, and read or write device properties.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/fatih/color"
	"github.com/theckman/yacspin"
	"golang.org/x/time/rate"

	"github.com/usbptp/goptp/objectstore"
	"github.com/usbptp/goptp/objtree"
	"github.com/usbptp/goptp/ptp"
	"github.com/usbptp/goptp/transport/usbgousb"
)

var (
	vid     = flag.Uint64("vid", 0, "USB vendor ID, e.g. 0x04A9")
	pid     = flag.Uint64("pid", 0, "USB product ID, e.g. 0x31C0")
	timeout = flag.Duration("timeout", 5*time.Second, "per-transaction timeout")
)

func usage() {
	fmt.Fprintln(os.Stderr, `ptp-cli -vid=0xNNNN -pid=0xNNNN <command> [args]

Commands:
  info                      print DeviceInfo
  storages                  list storage IDs and their StorageInfo
  ls <storageID>            walk and print the object tree
  get <handle> <out-dir>    download an object's data to out-dir
  rm <handle>               delete an object
  getprop <code>            print a device property's current value
  setprop <code> <value>    set a device property's value (interpreted as a string)`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
	os.Exit(1)
}

func spinner(suffix string) *yacspin.Spinner {
	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " " + suffix,
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	s, err := yacspin.New(cfg)
	if err != nil {
		return nil
	}
	s.Start()
	return s
}

func stop(s *yacspin.Spinner) {
	if s != nil {
		s.Stop()
	}
}

// openWithBackoff retries usbgousb.Open with an exponential backoff while
// the device enumerates, the same device-not-yet-present window ptp-httpd
// waits out.
func openWithBackoff(vid, pid uint16) (*usbgousb.Interface, error) {
	var iface *usbgousb.Interface
	op := func() error {
		i, err := usbgousb.Open(vid, pid)
		if err != nil {
			return err
		}
		iface = i
		return nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return iface, nil
}

func open() *ptp.Session {
	iface, err := openWithBackoff(uint16(*vid), uint16(*pid))
	if err != nil {
		fatal(fmt.Errorf("opening device 0x%04x:0x%04x: %w", *vid, *pid, err))
	}
	sess := ptp.Open(iface)
	if err := sess.OpenSession(1, *timeout); err != nil {
		fatal(fmt.Errorf("opening PTP session: %w", err))
	}
	return sess
}

func cmdInfo(sess *ptp.Session) {
	info, err := sess.GetDeviceInfo(*timeout)
	if err != nil {
		fatal(err)
	}
	fmt.Println(color.CyanString("Model:"), info.Model)
	fmt.Println(color.CyanString("Manufacturer:"), info.Manufacturer)
	fmt.Println(color.CyanString("SerialNumber:"), info.SerialNumber)
	fmt.Println(color.CyanString("DeviceVersion:"), info.DeviceVersion)
	fmt.Println(color.CyanString("StandardVersion:"), info.Version)
	fmt.Println(color.CyanString("OperationsSupported:"), len(info.OperationsSupported))
	fmt.Println(color.CyanString("PropertiesSupported:"), len(info.DevicePropsSupported))
}

func cmdStorages(sess *ptp.Session) {
	ids, err := sess.GetStorageIDs(*timeout)
	if err != nil {
		fatal(err)
	}
	for _, id := range ids {
		info, err := sess.GetStorageInfo(id, *timeout)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s 0x%08x %s %s (%d/%d bytes free)\n",
			color.CyanString("storage"), id, info.StorageDescription, info.VolumeLabel,
			info.FreeSpaceInBytes, info.MaxCapacity)
	}
}

func cmdLs(sess *ptp.Session, args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	storageID, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fatal(err)
	}
	s := spinner("walking object tree")
	limiter := rate.NewLimiter(objtree.DefaultRate, objtree.DefaultRate)
	nodes, err := objtree.WalkRateLimited(context.Background(), sess, uint32(storageID), *timeout, limiter)
	stop(s)
	if err != nil {
		fatal(err)
	}
	for _, n := range nodes {
		fmt.Printf("0x%08x %s\n", n.Handle, n.Path)
	}
}

func cmdGet(sess *ptp.Session, args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	handle, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fatal(err)
	}
	outDir := args[1]

	info, err := sess.GetObjectInfo(uint32(handle), *timeout)
	if err != nil {
		fatal(err)
	}
	s := spinner(fmt.Sprintf("downloading %s", info.Filename))
	data, err := sess.GetObject(uint32(handle), *timeout)
	stop(s)
	if err != nil {
		fatal(err)
	}
	store := objectstore.NewDownloader(outDir)
	path, err := store.Save(info, data, time.Now(), 0)
	if err != nil {
		fatal(err)
	}
	fmt.Println(color.GreenString("saved"), path)
}

func cmdRm(sess *ptp.Session, args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	handle, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fatal(err)
	}
	if err := sess.DeleteObject(uint32(handle), *timeout); err != nil {
		fatal(err)
	}
	fmt.Println(color.GreenString("deleted"))
}

func cmdGetProp(sess *ptp.Session, args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	code, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fatal(err)
	}
	desc, err := sess.GetDevicePropDesc(uint32(code), *timeout)
	if err != nil {
		fatal(err)
	}
	value, err := sess.GetDevicePropValue(uint32(code), desc.DataTypeCode, *timeout)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("0x%04x = %v\n", code, formatValue(value))
}

// formatValue renders a string or an 8- to 64-bit scalar DataType for
// display. Array values and INT128/UINT128 scalars are not rendered and
// print as "(array)".
func formatValue(v ptp.DataType) interface{} {
	if s, ok := v.Str(); ok {
		return s
	}
	if x, ok := v.Int8(); ok {
		return x
	}
	if x, ok := v.Uint8(); ok {
		return x
	}
	if x, ok := v.Int16(); ok {
		return x
	}
	if x, ok := v.Uint16(); ok {
		return x
	}
	if x, ok := v.Int32(); ok {
		return x
	}
	if x, ok := v.Uint32(); ok {
		return x
	}
	if x, ok := v.Int64(); ok {
		return x
	}
	if x, ok := v.Uint64(); ok {
		return x
	}
	if v.IsUndef() {
		return "(undefined)"
	}
	return "(array)"
}

func cmdSetProp(sess *ptp.Session, args []string) {
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	code, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fatal(err)
	}
	value := ptp.StringValue(args[1])
	if err := sess.SetDevicePropValue(uint32(code), value, *timeout); err != nil {
		fatal(err)
	}
	fmt.Println(color.GreenString("ok"))
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	sess := open()
	defer sess.Close(*timeout)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "info":
		cmdInfo(sess)
	case "storages":
		cmdStorages(sess)
	case "ls":
		cmdLs(sess, rest)
	case "get":
		cmdGet(sess, rest)
	case "rm":
		cmdRm(sess, rest)
	case "getprop":
		cmdGetProp(sess, rest)
	case "setprop":
		cmdSetProp(sess, rest)
	default:
		usage()
		os.Exit(2)
	}
}
