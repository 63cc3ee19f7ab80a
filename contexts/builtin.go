package contexts

type platformDecl struct {
	name, parent string
}

var builtinPlatforms = []platformDecl{
	{"common", ""},
	{"jvm", "common"},
	{"android", "common"},
	{"js", "common"},
	{"wasm", "common"},
	{"native", "common"},
	{"linux", "native"},
	{"linuxX64", "linux"},
	{"linuxArm64", "linux"},
	{"mingw", "native"},
	{"mingwX64", "mingw"},
	{"apple", "native"},
	{"ios", "apple"},
	{"iosArm64", "ios"},
	{"iosX64", "ios"},
	{"iosSimulatorArm64", "ios"},
	{"macos", "apple"},
	{"macosX64", "macos"},
	{"macosArm64", "macos"},
	{"tvos", "apple"},
	{"tvosArm64", "tvos"},
	{"watchos", "apple"},
	{"watchosArm64", "watchos"},
}

// Default returns a new Vocabulary with the built in platform hierarchy
// and a debug/release variant dimension.
func Default() *Vocabulary {
	v := NewVocabulary()
	for _, p := range builtinPlatforms {
		if err := v.AddPlatform(p.name, p.parent); err != nil {
			panic(err)
		}
	}
	if err := v.AddVariants("debug", "release"); err != nil {
		panic(err)
	}
	return v
}
