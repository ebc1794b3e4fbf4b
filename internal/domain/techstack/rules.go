package techstack

// Category selects which profile set a rule adds to.
type Category string

const (
	CategoryFramework    Category = "framework"
	CategoryTool         Category = "tool"
	CategoryArchitecture Category = "architecture"
)

// Match is how a manifest rule's signature is compared with a dependency name.
type Match int

const (
	MatchExact Match = iota
	MatchPrefix
	// MatchPresent fires when a manifest of the ecosystem exists at all.
	MatchPresent
)

// ManifestRule maps a dependency signature of one ecosystem to a tag.
type ManifestRule struct {
	Ecosystem Ecosystem
	Signature string
	Match     Match
	Category  Category
	Tag       string
}

// CodeRule fires when every keyword occurs in the lowercased file content.
// Extensions optionally restricts the rule to some file types.
type CodeRule struct {
	Keywords   []string
	Extensions []string
	Category   Category
	Tag        string
}

var DefaultManifestRules = []ManifestRule{
	// npm
	{EcosystemNPM, "react", MatchExact, CategoryFramework, "React"},
	{EcosystemNPM, "react-dom", MatchExact, CategoryFramework, "React"},
	{EcosystemNPM, "next", MatchExact, CategoryFramework, "Next.js"},
	{EcosystemNPM, "vue", MatchExact, CategoryFramework, "Vue.js"},
	{EcosystemNPM, "nuxt", MatchExact, CategoryFramework, "Nuxt"},
	{EcosystemNPM, "@angular/core", MatchExact, CategoryFramework, "Angular"},
	{EcosystemNPM, "svelte", MatchExact, CategoryFramework, "Svelte"},
	{EcosystemNPM, "express", MatchExact, CategoryFramework, "Express"},
	{EcosystemNPM, "@nestjs/", MatchPrefix, CategoryFramework, "NestJS"},
	{EcosystemNPM, "fastify", MatchExact, CategoryFramework, "Fastify"},
	{EcosystemNPM, "koa", MatchExact, CategoryFramework, "Koa"},
	{EcosystemNPM, "redux", MatchExact, CategoryFramework, "Redux"},
	{EcosystemNPM, "@reduxjs/toolkit", MatchExact, CategoryFramework, "Redux"},
	{EcosystemNPM, "tailwindcss", MatchExact, CategoryFramework, "Tailwind CSS"},
	{EcosystemNPM, "graphql", MatchExact, CategoryFramework, "GraphQL"},
	{EcosystemNPM, "@supabase/supabase-js", MatchExact, CategoryTool, "Supabase"},
	{EcosystemNPM, "prisma", MatchExact, CategoryTool, "Prisma"},
	{EcosystemNPM, "@prisma/client", MatchExact, CategoryTool, "Prisma"},
	{EcosystemNPM, "mongoose", MatchExact, CategoryTool, "Mongoose"},
	{EcosystemNPM, "typescript", MatchExact, CategoryTool, "TypeScript"},
	{EcosystemNPM, "vite", MatchExact, CategoryTool, "Vite"},
	{EcosystemNPM, "webpack", MatchExact, CategoryTool, "Webpack"},
	{EcosystemNPM, "eslint", MatchExact, CategoryTool, "ESLint"},
	{EcosystemNPM, "prettier", MatchExact, CategoryTool, "Prettier"},
	{EcosystemNPM, "jest", MatchExact, CategoryTool, "Jest"},
	{EcosystemNPM, "vitest", MatchExact, CategoryTool, "Vitest"},
	{EcosystemNPM, "mocha", MatchExact, CategoryTool, "Mocha"},
	{EcosystemNPM, "", MatchPresent, CategoryTool, "npm"},

	// python
	{EcosystemPyPI, "django", MatchExact, CategoryFramework, "Django"},
	{EcosystemPyPI, "flask", MatchExact, CategoryFramework, "Flask"},
	{EcosystemPyPI, "fastapi", MatchExact, CategoryFramework, "FastAPI"},
	{EcosystemPyPI, "tensorflow", MatchExact, CategoryFramework, "TensorFlow"},
	{EcosystemPyPI, "torch", MatchExact, CategoryFramework, "PyTorch"},
	{EcosystemPyPI, "sqlalchemy", MatchExact, CategoryTool, "SQLAlchemy"},
	{EcosystemPyPI, "celery", MatchExact, CategoryTool, "Celery"},
	{EcosystemPyPI, "pandas", MatchExact, CategoryTool, "pandas"},
	{EcosystemPyPI, "numpy", MatchExact, CategoryTool, "NumPy"},
	{EcosystemPyPI, "pytest", MatchExact, CategoryTool, "pytest"},
	{EcosystemPyPI, "", MatchPresent, CategoryTool, "pip"},

	// go
	{EcosystemGo, "github.com/gin-gonic/gin", MatchExact, CategoryFramework, "Gin"},
	{EcosystemGo, "github.com/labstack/echo", MatchPrefix, CategoryFramework, "Echo"},
	{EcosystemGo, "github.com/gofiber/fiber", MatchPrefix, CategoryFramework, "Fiber"},
	{EcosystemGo, "github.com/go-chi/chi", MatchPrefix, CategoryFramework, "Chi"},
	{EcosystemGo, "google.golang.org/grpc", MatchExact, CategoryFramework, "gRPC"},
	{EcosystemGo, "gorm.io/gorm", MatchExact, CategoryTool, "GORM"},
	{EcosystemGo, "github.com/spf13/cobra", MatchExact, CategoryTool, "Cobra"},
	{EcosystemGo, "github.com/stretchr/testify", MatchExact, CategoryTool, "Testify"},
	{EcosystemGo, "", MatchPresent, CategoryTool, "Go Modules"},

	// rust
	{EcosystemCargo, "actix-web", MatchExact, CategoryFramework, "Actix Web"},
	{EcosystemCargo, "axum", MatchExact, CategoryFramework, "Axum"},
	{EcosystemCargo, "rocket", MatchExact, CategoryFramework, "Rocket"},
	{EcosystemCargo, "tokio", MatchExact, CategoryTool, "Tokio"},
	{EcosystemCargo, "serde", MatchExact, CategoryTool, "Serde"},
	{EcosystemCargo, "", MatchPresent, CategoryTool, "Cargo"},

	// jvm
	{EcosystemMaven, "spring-boot", MatchPrefix, CategoryFramework, "Spring Boot"},
	{EcosystemMaven, "hibernate", MatchPrefix, CategoryTool, "Hibernate"},
	{EcosystemMaven, "junit", MatchPrefix, CategoryTool, "JUnit"},
	{EcosystemMaven, "", MatchPresent, CategoryTool, "Maven"},
	{EcosystemGradle, "spring-boot", MatchPrefix, CategoryFramework, "Spring Boot"},
	{EcosystemGradle, "hibernate", MatchPrefix, CategoryTool, "Hibernate"},
	{EcosystemGradle, "junit", MatchPrefix, CategoryTool, "JUnit"},
	{EcosystemGradle, "", MatchPresent, CategoryTool, "Gradle"},

	// php
	{EcosystemComposer, "laravel/framework", MatchExact, CategoryFramework, "Laravel"},
	{EcosystemComposer, "symfony/", MatchPrefix, CategoryFramework, "Symfony"},
	{EcosystemComposer, "phpunit/phpunit", MatchExact, CategoryTool, "PHPUnit"},
	{EcosystemComposer, "", MatchPresent, CategoryTool, "Composer"},

	// ruby
	{EcosystemRubyGems, "rails", MatchExact, CategoryFramework, "Ruby on Rails"},
	{EcosystemRubyGems, "sinatra", MatchExact, CategoryFramework, "Sinatra"},
	{EcosystemRubyGems, "rspec", MatchPrefix, CategoryTool, "RSpec"},
	{EcosystemRubyGems, "", MatchPresent, CategoryTool, "Bundler"},

	// dart
	{EcosystemPub, "flutter", MatchExact, CategoryFramework, "Flutter"},

	// containers and build
	{EcosystemDocker, "", MatchPresent, CategoryTool, "Docker"},
	{EcosystemCompose, "", MatchPresent, CategoryTool, "Docker Compose"},
	{EcosystemDocker, "node", MatchExact, CategoryTool, "Node.js"},
	{EcosystemCompose, "postgres", MatchExact, CategoryTool, "PostgreSQL"},
	{EcosystemCompose, "mysql", MatchExact, CategoryTool, "MySQL"},
	{EcosystemCompose, "redis", MatchExact, CategoryTool, "Redis"},
	{EcosystemCompose, "mongo", MatchExact, CategoryTool, "MongoDB"},
	{EcosystemCompose, "nginx", MatchExact, CategoryTool, "Nginx"},
	{EcosystemMake, "", MatchPresent, CategoryTool, "Make"},
}

var DefaultCodeRules = []CodeRule{
	{Keywords: []string{"controller", "model"}, Category: CategoryArchitecture, Tag: "MVC"},
	{Keywords: []string{"repository", "interface"}, Category: CategoryArchitecture, Tag: "Repository Pattern"},
	{Keywords: []string{"middleware", "next("}, Category: CategoryArchitecture, Tag: "Middleware Pipeline"},
	{Keywords: []string{"publish", "subscribe"}, Category: CategoryArchitecture, Tag: "Event-Driven"},
	{Keywords: []string{"@injectable", "constructor("}, Category: CategoryArchitecture, Tag: "Dependency Injection"},
	{Keywords: []string{"factory", "create"}, Category: CategoryArchitecture, Tag: "Factory Pattern"},
	{Keywords: []string{"getinstance", "static"}, Category: CategoryArchitecture, Tag: "Singleton"},
	{Keywords: []string{"router", "handler"}, Category: CategoryArchitecture, Tag: "REST API"},
	{Keywords: []string{"grpc", "proto"}, Category: CategoryArchitecture, Tag: "RPC Services"},
	{Keywords: []string{"usestate", "useeffect"}, Extensions: []string{"js", "jsx", "ts", "tsx"}, Category: CategoryFramework, Tag: "React"},
	{Keywords: []string{"express()", "app.listen"}, Extensions: []string{"js", "ts", "mjs", "cjs"}, Category: CategoryFramework, Tag: "Express"},
	{Keywords: []string{"from django", "models."}, Extensions: []string{"py"}, Category: CategoryFramework, Tag: "Django"},
	{Keywords: []string{"from flask", "@app.route"}, Extensions: []string{"py"}, Category: CategoryFramework, Tag: "Flask"},
	{Keywords: []string{"from fastapi", "@app."}, Extensions: []string{"py"}, Category: CategoryFramework, Tag: "FastAPI"},
	{Keywords: []string{"@springbootapplication", "springapplication"}, Extensions: []string{"java", "kt"}, Category: CategoryFramework, Tag: "Spring Boot"},
	{Keywords: []string{"gin.default", "c.json"}, Extensions: []string{"go"}, Category: CategoryFramework, Tag: "Gin"},
	{Keywords: []string{"definecomponent", "vue"}, Extensions: []string{"vue", "js", "ts"}, Category: CategoryFramework, Tag: "Vue.js"},
}
