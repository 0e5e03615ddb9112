package editor

// tableEntry maps one known editor to the process paths it shows up as in
// a process listing and the command used to invoke it. The per-platform
// tables are read-only input data; they are never mutated at runtime.
//
// Matching semantics differ per platform:
//   - darwin: processes are absolute default install paths, matched as
//     path suffixes. A command containing a separator is an app-internal
//     binary and is re-rooted at the discovered install prefix; a bare
//     command is a PATH shim and is used as-is.
//   - windows: processes are executable base names, matched exactly; the
//     command is the discovered executable path itself, so command is
//     left empty here.
//   - other unix: processes are matched as substrings of the raw listing;
//     the command is used verbatim.
type tableEntry struct {
	name      string
	processes []string
	command   string
}

// Entries are scanned in declaration order. When several unrelated known
// editors are running and none is preferred, the first entry wins; that
// order is the only priority there is.
var darwinTable = []tableEntry{
	{name: "atom", processes: []string{"/Applications/Atom.app/Contents/MacOS/Atom"}, command: "atom"},
	{name: "atom-beta", processes: []string{"/Applications/Atom Beta.app/Contents/MacOS/Atom Beta"}, command: "/Applications/Atom Beta.app/Contents/MacOS/Atom Beta"},
	{name: "brackets", processes: []string{"/Applications/Brackets.app/Contents/MacOS/Brackets"}, command: "brackets"},
	{name: "sublime", processes: []string{
		"/Applications/Sublime Text.app/Contents/MacOS/Sublime Text",
		"/Applications/Sublime Text.app/Contents/MacOS/sublime_text",
		"/Applications/Sublime Text Dev.app/Contents/MacOS/Sublime Text",
	}, command: "/Applications/Sublime Text.app/Contents/SharedSupport/bin/subl"},
	{name: "sublime", processes: []string{"/Applications/Sublime Text 2.app/Contents/MacOS/Sublime Text 2"}, command: "/Applications/Sublime Text 2.app/Contents/SharedSupport/bin/subl"},
	{name: "code", processes: []string{"/Applications/Visual Studio Code.app/Contents/MacOS/Electron"}, command: "code"},
	{name: "code-insiders", processes: []string{"/Applications/Visual Studio Code - Insiders.app/Contents/MacOS/Electron"}, command: "code-insiders"},
	{name: "codium", processes: []string{"/Applications/VSCodium.app/Contents/MacOS/Electron"}, command: "codium"},
	{name: "cursor", processes: []string{"/Applications/Cursor.app/Contents/MacOS/Cursor"}, command: "cursor"},
	{name: "windsurf", processes: []string{"/Applications/Windsurf.app/Contents/MacOS/Electron"}, command: "windsurf"},
	{name: "zed", processes: []string{"/Applications/Zed.app/Contents/MacOS/zed"}, command: "zed"},
	{name: "appcode", processes: []string{"/Applications/AppCode.app/Contents/MacOS/appcode"}, command: "/Applications/AppCode.app/Contents/MacOS/appcode"},
	{name: "clion", processes: []string{"/Applications/CLion.app/Contents/MacOS/clion"}, command: "/Applications/CLion.app/Contents/MacOS/clion"},
	{name: "idea", processes: []string{"/Applications/IntelliJ IDEA.app/Contents/MacOS/idea"}, command: "/Applications/IntelliJ IDEA.app/Contents/MacOS/idea"},
	{name: "phpstorm", processes: []string{"/Applications/PhpStorm.app/Contents/MacOS/phpstorm"}, command: "/Applications/PhpStorm.app/Contents/MacOS/phpstorm"},
	{name: "pycharm", processes: []string{"/Applications/PyCharm.app/Contents/MacOS/pycharm"}, command: "/Applications/PyCharm.app/Contents/MacOS/pycharm"},
	{name: "pycharm", processes: []string{"/Applications/PyCharm CE.app/Contents/MacOS/pycharm"}, command: "/Applications/PyCharm CE.app/Contents/MacOS/pycharm"},
	{name: "rubymine", processes: []string{"/Applications/RubyMine.app/Contents/MacOS/rubymine"}, command: "/Applications/RubyMine.app/Contents/MacOS/rubymine"},
	{name: "webstorm", processes: []string{"/Applications/WebStorm.app/Contents/MacOS/webstorm"}, command: "/Applications/WebStorm.app/Contents/MacOS/webstorm"},
	{name: "goland", processes: []string{"/Applications/GoLand.app/Contents/MacOS/goland"}, command: "/Applications/GoLand.app/Contents/MacOS/goland"},
	{name: "rider", processes: []string{"/Applications/Rider.app/Contents/MacOS/rider"}, command: "/Applications/Rider.app/Contents/MacOS/rider"},
}

var linuxTable = []tableEntry{
	{name: "atom", processes: []string{"atom"}, command: "atom"},
	{name: "brackets", processes: []string{"Brackets"}, command: "brackets"},
	{name: "code", processes: []string{"code"}, command: "code"},
	{name: "code-insiders", processes: []string{"code-insiders"}, command: "code-insiders"},
	{name: "codium", processes: []string{"codium"}, command: "codium"},
	{name: "codium", processes: []string{"vscodium"}, command: "vscodium"},
	{name: "emacs", processes: []string{"emacs"}, command: "emacs"},
	{name: "gvim", processes: []string{"gvim"}, command: "gvim"},
	{name: "idea", processes: []string{"idea.sh"}, command: "idea"},
	{name: "phpstorm", processes: []string{"phpstorm.sh"}, command: "phpstorm"},
	{name: "pycharm", processes: []string{"pycharm.sh"}, command: "pycharm"},
	{name: "rubymine", processes: []string{"rubymine.sh"}, command: "rubymine"},
	{name: "sublime", processes: []string{"sublime_text"}, command: "sublime_text"},
	{name: "vim", processes: []string{"vim"}, command: "vim"},
	{name: "webstorm", processes: []string{"webstorm.sh"}, command: "webstorm"},
	{name: "goland", processes: []string{"goland.sh"}, command: "goland"},
	{name: "rider", processes: []string{"rider.sh"}, command: "rider"},
	{name: "cursor", processes: []string{"cursor"}, command: "cursor"},
	{name: "windsurf", processes: []string{"windsurf"}, command: "windsurf"},
	{name: "zed", processes: []string{"zed"}, command: "zed"},
}

var windowsTable = []tableEntry{
	{name: "brackets", processes: []string{"Brackets.exe"}},
	{name: "code", processes: []string{"Code.exe"}},
	{name: "code-insiders", processes: []string{"Code - Insiders.exe"}},
	{name: "codium", processes: []string{"VSCodium.exe"}},
	{name: "atom", processes: []string{"atom.exe"}},
	{name: "sublime", processes: []string{"sublime_text.exe"}},
	{name: "notepad++", processes: []string{"notepad++.exe"}},
	{name: "clion", processes: []string{"clion.exe", "clion64.exe"}},
	{name: "idea", processes: []string{"idea.exe", "idea64.exe"}},
	{name: "phpstorm", processes: []string{"phpstorm.exe", "phpstorm64.exe"}},
	{name: "pycharm", processes: []string{"pycharm.exe", "pycharm64.exe"}},
	{name: "rubymine", processes: []string{"rubymine.exe", "rubymine64.exe"}},
	{name: "webstorm", processes: []string{"webstorm.exe", "webstorm64.exe"}},
	{name: "goland", processes: []string{"goland.exe", "goland64.exe"}},
	{name: "rider", processes: []string{"rider.exe", "rider64.exe"}},
	{name: "cursor", processes: []string{"Cursor.exe"}},
	{name: "windsurf", processes: []string{"Windsurf.exe"}},
}

// tableFor returns the editor table for an OS family. Unix-likes other
// than macOS all share the Linux table.
func tableFor(goos string) []tableEntry {
	switch goos {
	case "darwin":
		return darwinTable
	case "windows":
		return windowsTable
	default:
		return linuxTable
	}
}

// DetectableEditors returns the canonical editor names the process scan can
// discover on goos, in precedence order.
func DetectableEditors(goos string) []string {
	entries := tableFor(goos)
	names := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.name] {
			continue
		}
		seen[entry.name] = true
		names = append(names, entry.name)
	}
	return names
}

// allEntries returns every table's entries, used to map installed binary
// paths back to canonical names regardless of the current platform.
func allEntries() []tableEntry {
	entries := make([]tableEntry, 0, len(darwinTable)+len(linuxTable)+len(windowsTable))
	entries = append(entries, darwinTable...)
	entries = append(entries, linuxTable...)
	entries = append(entries, windowsTable...)
	return entries
}
