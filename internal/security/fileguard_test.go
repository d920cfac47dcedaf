package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDangerousExtension(t *testing.T) {
	assert.True(t, DangerousExtension("malware.exe"))
	assert.True(t, DangerousExtension("Shell.PHP"))
	assert.True(t, DangerousExtension("script.js"))
	assert.True(t, DangerousExtension("deploy.sh"))
	assert.True(t, DangerousExtension("override.htaccess"))

	assert.False(t, DangerousExtension("contract.pdf"))
	assert.False(t, DangerousExtension("floorplan.dwg"))
	assert.False(t, DangerousExtension("photos.zip"))
	assert.False(t, DangerousExtension("報告書.xlsx"))
	assert.False(t, DangerousExtension("noextension"))
}

func TestSuspiciousFilename(t *testing.T) {
	assert.True(t, SuspiciousFilename("con"))
	assert.True(t, SuspiciousFilename("CON.txt"))
	assert.True(t, SuspiciousFilename("lpt1.pdf"))
	assert.True(t, SuspiciousFilename("bad\x01name.txt"))
	assert.True(t, SuspiciousFilename(`report<v2>.pdf`))
	assert.True(t, SuspiciousFilename("a|b.txt"))

	assert.False(t, SuspiciousFilename("report.pdf"))
	assert.False(t, SuspiciousFilename("console.txt"), "only exact device names match")
	assert.False(t, SuspiciousFilename("設備一覧.xlsx"))
}

func TestMatchesTraversal(t *testing.T) {
	assert.True(t, matchesTraversal("../../etc/passwd"))
	assert.True(t, matchesTraversal(`..\..\windows`))
	assert.True(t, matchesTraversal("%2e%2e%2fsecret"))
	assert.True(t, matchesTraversal("%2E%2E%2Fsecret"))
	assert.True(t, matchesTraversal("..%2fsecret"))
	assert.True(t, matchesTraversal("%252e%252e%252fsecret"))
	assert.True(t, matchesTraversal("/proc/self/environ"))
	assert.True(t, matchesTraversal(`C:\Windows\system32`))

	assert.False(t, matchesTraversal("reports/2026/august.pdf"))
	assert.False(t, matchesTraversal("a..b"))
	assert.False(t, matchesTraversal("version 2.5"))
}
