//go:build linux

package linux

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// DependencyInfo contains information about a missing dependency and how to install it.
type DependencyInfo struct {
	Name        string
	WhyNeeded   string
	InstallCmd  string
	Optional    bool
	Alternative string
}

// packageName maps a tool to the package that ships it.
func packageName(tool, pkgManager string) string {
	switch tool {
	case "xdotool":
		return "xdotool"
	case "xprop":
		switch pkgManager {
		case "apt":
			return "x11-utils"
		case "dnf", "yum":
			return "xprop"
		case "pacman":
			return "xorg-xprop"
		default:
			return "xprop"
		}
	case "xrandr":
		switch pkgManager {
		case "apt":
			return "x11-xserver-utils"
		case "pacman":
			return "xorg-xrandr"
		default:
			return "xrandr"
		}
	default:
		return ""
	}
}

// GenerateInstallCommand generates a distro-specific installation command for the given tool.
func GenerateInstallCommand(tool string, distro DistroInfo) (string, error) {
	pkg := packageName(strings.ToLower(tool), distro.PkgManager)
	if pkg == "" {
		return "", fmt.Errorf("package name not available for tool %q", tool)
	}

	switch distro.PkgManager {
	case "apt":
		return fmt.Sprintf("sudo apt update && sudo apt install %s", pkg), nil
	case "dnf", "yum":
		return fmt.Sprintf("sudo %s install %s", distro.PkgManager, pkg), nil
	case "pacman":
		return fmt.Sprintf("sudo pacman -S %s", pkg), nil
	case "zypper":
		return fmt.Sprintf("sudo zypper install %s", pkg), nil
	case "apk":
		return fmt.Sprintf("sudo apk add %s", pkg), nil
	default:
		return fmt.Sprintf("Install %s using your distribution's package manager", pkg), nil
	}
}

// CheckMissingDependencies lists the tools the X11 cursor needs but cannot find.
func CheckMissingDependencies(caps Capabilities, distro DistroInfo) []DependencyInfo {
	var missing []DependencyInfo

	if !caps.XdotoolAvailable {
		cmd, _ := GenerateInstallCommand("xdotool", distro)
		missing = append(missing, DependencyInfo{
			Name:       "xdotool",
			WhyNeeded:  "Reads and moves the cursor on X11",
			InstallCmd: cmd,
		})
	}
	if !caps.XpropAvailable {
		cmd, _ := GenerateInstallCommand("xprop", distro)
		missing = append(missing, DependencyInfo{
			Name:        "xprop",
			WhyNeeded:   "Reads the desktop work area so the figure avoids panels",
			InstallCmd:  cmd,
			Optional:    true,
			Alternative: "The full display size is used instead",
		})
	}
	if !caps.XrandrAvailable {
		cmd, _ := GenerateInstallCommand("xrandr", distro)
		missing = append(missing, DependencyInfo{
			Name:        "xrandr",
			WhyNeeded:   "Finds the monitor under the cursor on multi-monitor setups",
			InstallCmd:  cmd,
			Optional:    true,
			Alternative: "The work area spans every monitor",
		})
	}
	return missing
}

// FormatDependencyMessages formats dependency information into user-friendly messages.
func FormatDependencyMessages(missing []DependencyInfo) string {
	if len(missing) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Missing dependencies detected:\n\n")
	for i, dep := range missing {
		kind := "required"
		if dep.Optional {
			kind = "optional"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, dep.Name, kind)
		fmt.Fprintf(&b, "   Why needed: %s\n", dep.WhyNeeded)
		fmt.Fprintf(&b, "   Install with: %s\n", dep.InstallCmd)
		if dep.Alternative != "" {
			fmt.Fprintf(&b, "   Without it: %s\n", dep.Alternative)
		}
	}
	return b.String()
}

// getInputGroupGID looks up the "input" group GID by parsing /etc/group.
func getInputGroupGID() int {
	file, err := os.Open("/etc/group")
	if err != nil {
		return -1
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), ":")
		if len(parts) >= 3 && parts[0] == "input" {
			if gid, err := strconv.Atoi(parts[2]); err == nil {
				return gid
			}
		}
	}
	return -1
}

const uinputInstructions = "Add your user to the 'input' group:\n" +
	"  sudo usermod -aG input $USER\n" +
	"Then log out and log back in.\n\n" +
	"Alternatively, create a udev rule:\n" +
	"  echo 'KERNEL==\"uinput\", MODE=\"0664\", GROUP=\"input\"' | sudo tee /etc/udev/rules.d/99-uinput.rules\n" +
	"  sudo udevadm control --reload-rules && sudo udevadm trigger"

// CheckUinputPermissions checks if uinput is accessible and returns a user-friendly error message if not.
func CheckUinputPermissions() (bool, string) {
	if _, err := os.Stat(uinputDevicePath); os.IsNotExist(err) {
		return false, "uinput device not found: /dev/uinput does not exist. The uinput kernel module may not be loaded. Try: sudo modprobe uinput"
	}

	f, err := os.OpenFile(uinputDevicePath, os.O_WRONLY, 0)
	if err != nil {
		if gid := getInputGroupGID(); gid != -1 {
			if groups, gerr := os.Getgroups(); gerr == nil && !slices.Contains(groups, gid) {
				return false, "uinput permission denied. " + uinputInstructions
			}
		}
		return false, fmt.Sprintf("uinput permission denied: %v\n\n%s", err, uinputInstructions)
	}
	f.Close()
	return true, ""
}

// DependencyMessage returns instructions for anything missing, or "".
func DependencyMessage() string {
	caps := DetectCapabilities()
	return FormatDependencyMessages(CheckMissingDependencies(caps, DetectDistribution()))
}
