// SPDX-License-Identifier: MPL-2.0

package prebuilt

import (
	"fmt"
	"net/url"
	"path"

	"github.com/invowk/emprep/pkg/platform"
)

// Version is the release of the prebuilt archives in the built-in catalogs.
const Version = "1.38.19-1"

const releaseBase = "https://github.com/koute/emscripten-build/releases/download/emscripten-" + Version + "/"

type (
	// Descriptor identifies one downloadable archive. It is only meaningful
	// for the platform it was selected for.
	Descriptor struct {
		URL     string `json:"url" toml:"url"`
		Name    string `json:"name" toml:"name"`
		Version string `json:"version" toml:"version"`
		// Arch is the target triple or architecture label used in the file name.
		Arch string `json:"arch" toml:"arch"`
		// Hash is the lowercase hex SHA-256 of the archive.
		Hash string `json:"hash" toml:"hash"`
		// Size is the archive length in bytes.
		Size int64 `json:"size" toml:"size"`
	}

	// Selector yields the archive built for a platform, if there is one.
	Selector interface {
		// Select accepts Go (amd64, 386) and toolchain (x86_64, x86, i686)
		// spellings of the architecture.
		Select(goos, arch string) (Descriptor, bool)
	}

	// Catalog is a fixed Selector keyed by normalized platform tag.
	Catalog map[platform.Tag]Descriptor
)

var (
	// EmscriptenCatalog lists the prebuilt emscripten compiler archives.
	EmscriptenCatalog = Catalog{
		{OS: platform.Linux, Arch: platform.ArchX86_64}: release("emscripten", "x86_64-unknown-linux-gnu",
			"baab5f1162901bfa220cb009dc628300c5e67b91cf58656ab6bf392d513bff9c", 211505607),
		{OS: platform.Linux, Arch: platform.ArchX86}: release("emscripten", "i686-unknown-linux-gnu",
			"6d211eb0e9bbf82a1bf0dcc336486aa5191952f3938b7c0cf76b8d6946d4c117", 223770839),
	}

	// BinaryenCatalog lists the prebuilt binaryen optimizer archives.
	BinaryenCatalog = Catalog{
		{OS: platform.Linux, Arch: platform.ArchX86_64}: release("binaryen", "x86_64-unknown-linux-gnu",
			"af079258c6f13234541d932b873762910951779c4682fc917255716637383dc9", 15818455),
		{OS: platform.Linux, Arch: platform.ArchX86}: release("binaryen", "i686-unknown-linux-gnu",
			"9fd0e30d1760d29e3c96fa24592a35629876316fadb7ef882b9c6d8b2eafb0d8", 15951181),
	}

	_ Selector = Catalog(nil)
)

// Catalogs returns the built-in catalogs by package name.
func Catalogs() map[string]Catalog {
	return map[string]Catalog{
		"emscripten": EmscriptenCatalog,
		"binaryen":   BinaryenCatalog,
	}
}

// Select implements Selector.
func (c Catalog) Select(goos, arch string) (Descriptor, bool) {
	d, ok := c[platform.Normalize(goos, arch)]
	return d, ok
}

// Filename returns the archive's file name, taken from its URL.
func (d Descriptor) Filename() string {
	if u, err := url.Parse(d.URL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return fmt.Sprintf("%s-%s-%s.tgz", d.Name, d.Version, d.Arch)
}

func release(name, arch, hash string, size int64) Descriptor {
	return Descriptor{
		URL:     fmt.Sprintf("%s%s-%s-%s.tgz", releaseBase, name, Version, arch),
		Name:    name,
		Version: Version,
		Arch:    arch,
		Hash:    hash,
		Size:    size,
	}
}
