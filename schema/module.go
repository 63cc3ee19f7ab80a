package schema

// ProductType is the Go form of the product type enum.
type ProductType string

const (
	JVMApp     ProductType = "jvm/app"
	JVMLib     ProductType = "jvm/lib"
	AndroidApp ProductType = "android/app"
	IOSApp     ProductType = "ios/app"
	Lib        ProductType = "lib"
)

type DependencyScope string

const (
	ScopeAll         DependencyScope = "all"
	ScopeCompileOnly DependencyScope = "compile-only"
	ScopeRuntimeOnly DependencyScope = "runtime-only"
)

var ProductTypes = &Enum{
	Name: "ProductType",
	Entries: []Entry{
		{Name: "JVMApp", SchemaValue: string(JVMApp)},
		{Name: "JVMLib", SchemaValue: string(JVMLib)},
		{Name: "AndroidApp", SchemaValue: string(AndroidApp)},
		{Name: "IOSApp", SchemaValue: string(IOSApp)},
		{Name: "Lib", SchemaValue: string(Lib)},
	},
	Constants: map[string]any{
		"JVMApp":     JVMApp,
		"JVMLib":     JVMLib,
		"AndroidApp": AndroidApp,
		"IOSApp":     IOSApp,
		"Lib":        Lib,
	},
}

var DependencyScopes = &Enum{
	Name: "DependencyScope",
	Entries: []Entry{
		{Name: "All", SchemaValue: string(ScopeAll)},
		{Name: "CompileOnly", SchemaValue: string(ScopeCompileOnly)},
		{Name: "RuntimeOnly", SchemaValue: string(ScopeRuntimeOnly)},
	},
	Constants: map[string]any{
		"All":         ScopeAll,
		"CompileOnly": ScopeCompileOnly,
		"RuntimeOnly": ScopeRuntimeOnly,
	},
}

var Product = NewObject("Product",
	&Property{Name: "type", Type: EnumOf(ProductTypes), Required: true, Collapsible: true},
	&Property{Name: "platforms", Type: ListOf(String)},
)

var Dependency = NewObject("Dependency",
	&Property{Name: "coordinates", Type: String, Required: true, Collapsible: true},
	&Property{Name: "exported", Type: Bool, Default: false, Shorthand: true},
	&Property{Name: "scope", Type: EnumOf(DependencyScopes), Default: "All"},
)

var Repository = NewObject("Repository",
	&Property{Name: "url", Type: String, Required: true, Collapsible: true},
	&Property{Name: "id", Type: String},
	&Property{Name: "publish", Type: Bool, Default: false, Shorthand: true},
	&Property{Name: "resolve", Type: Bool, Default: true},
)

var KotlinSettings = NewObject("KotlinSettings",
	&Property{Name: "version", Type: String, Default: "2.0.0"},
	&Property{Name: "languageVersion", Type: String},
	&Property{Name: "allWarningsAsErrors", Type: Bool, Default: false},
	&Property{Name: "freeCompilerArgs", Type: ListOf(String)},
)

var JVMSettings = NewObject("JvmSettings",
	&Property{Name: "release", Type: Int, Default: 17},
	&Property{Name: "mainClass", Type: String},
)

var AndroidSettings = NewObject("AndroidSettings",
	&Property{Name: "namespace", Type: String},
	&Property{Name: "compileSdk", Type: Int, Default: 34},
	&Property{Name: "minSdk", Type: Int, Default: 21},
)

var Settings = NewObject("Settings",
	&Property{Name: "kotlin", Type: ObjectOf(KotlinSettings)},
	&Property{Name: "jvm", Type: ObjectOf(JVMSettings)},
	&Property{Name: "android", Type: ObjectOf(AndroidSettings)},
)

// Module is the root declaration of a module configuration file.
var Module = NewObject("Module",
	&Property{Name: "product", Type: ObjectOf(Product), Required: true},
	&Property{Name: "settings", Type: ObjectOf(Settings)},
	&Property{Name: "dependencies", Type: ListOf(ObjectOf(Dependency))},
	&Property{Name: "repositories", Type: ListOf(ObjectOf(Repository))},
	&Property{Name: "aliases", Type: MapOf(ListOf(String))},
	// apply lists the templates merged before the module, relative to the
	// module directory.
	&Property{Name: "apply", Type: ListOf(Path)},
)
