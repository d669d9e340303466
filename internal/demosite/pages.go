package demosite

// PageVersion is one maturity level of a page.
type PageVersion struct {
	Body        string
	ContentType string
}

// PageDefinition holds all maturity levels of a single path.
type PageDefinition struct {
	Path        string
	Description string
	Levels      map[int]PageVersion
}

// MaxLevel is the highest maturity level any page defines.
const MaxLevel = 3

// AllPages returns the demo page definitions. Level 1 is a site with no
// AI-readability work at all, level 2 has its basic metadata in order, and
// level 3 adds llms.txt, structured data and an FAQ.
func AllPages() []PageDefinition {
	return []PageDefinition{
		homePage(),
		aboutPage(),
		llmsTxtPage(),
		robotsPage(),
		sitemapPage(),
	}
}

func homePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Home page at three AI-readability maturity levels",
		Levels: map[int]PageVersion{
			1: {ContentType: "text/html", Body: `<!DOCTYPE html>
<html>
<head>
    <title>Home</title>
</head>
<body>
    <p>Welcome to Lumon Coffee. We sell coffee beans online.</p>
    <p><a href="/about">about</a></p>
</body>
</html>`},
			2: {ContentType: "text/html", Body: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Lumon Coffee | Fresh-Roasted Beans Delivered</title>
    <meta name="description" content="Lumon Coffee roasts single-origin beans to order and ships them within 24 hours of roasting.">
    <meta property="og:title" content="Lumon Coffee">
    <meta property="og:description" content="Fresh-roasted single-origin coffee beans, shipped within 24 hours.">
    <link rel="canonical" href="http://localhost:9999/">
</head>
<body>
    <nav><a href="/">Home</a> <a href="/about">About</a></nav>
    <main>
        <h1>Fresh-Roasted Beans, Delivered Fast</h1>
        <h2>Why order from us</h2>
        <ul>
            <li>Roasted to order, never warehoused</li>
            <li>Shipped within 24 hours of roasting</li>
            <li>Single-origin lots from six countries</li>
        </ul>
        <p>Lumon Coffee is a small roastery that ships direct. Every bag carries its roast date, and anything older than three days never leaves the building.</p>
    </main>
</body>
</html>`},
			3: {ContentType: "text/html", Body: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Lumon Coffee | Fresh-Roasted Beans Delivered</title>
    <meta name="description" content="Lumon Coffee roasts single-origin beans to order and ships them within 24 hours of roasting.">
    <meta property="og:title" content="Lumon Coffee">
    <meta property="og:description" content="Fresh-roasted single-origin coffee beans, shipped within 24 hours.">
    <meta property="og:site_name" content="Lumon Coffee">
    <meta property="og:image" content="http://localhost:9999/static/logo.png">
    <link rel="canonical" href="http://localhost:9999/">
    <script type="application/ld+json">
    {"@context":"https://schema.org","@type":"Organization","name":"Lumon Coffee","url":"http://localhost:9999/","logo":"http://localhost:9999/static/logo.png","description":"Small roastery shipping single-origin coffee direct.","sameAs":["https://twitter.com/lumoncoffee"]}
    </script>
    <script type="application/ld+json">
    {"@context":"https://schema.org","@type":"WebSite","name":"Lumon Coffee","url":"http://localhost:9999/"}
    </script>
</head>
<body>
    <nav><a href="/">Home</a> <a href="/about">About</a></nav>
    <main>
        <h1>Fresh-Roasted Beans, Delivered Fast</h1>
        <h2>Why order from us</h2>
        <ul>
            <li>Roasted to order, never warehoused</li>
            <li>Shipped within 24 hours of roasting</li>
            <li>Single-origin lots from six countries</li>
        </ul>
        <p>Lumon Coffee is a small roastery that ships direct. Every bag carries its roast date, and anything older than three days never leaves the building.</p>
        <h2>Frequently asked questions</h2>
        <h3>How fresh is the coffee?</h3>
        <p>Every order is roasted after you place it and ships within 24 hours, so beans arrive three to five days off roast.</p>
        <h3>Do you ship internationally?</h3>
        <p>We ship to the US and Canada today. Sign up for the newsletter to hear when more destinations open.</p>
    </main>
</body>
</html>`},
		},
	}
}

func aboutPage() PageDefinition {
	return PageDefinition{
		Path:        "/about",
		Description: "About page",
		Levels: map[int]PageVersion{
			1: {ContentType: "text/html", Body: `<!DOCTYPE html>
<html>
<head><title>About</title></head>
<body><p>We are a coffee company.</p></body>
</html>`},
			2: {ContentType: "text/html", Body: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>About Lumon Coffee</title>
    <meta name="description" content="Lumon Coffee started in a garage in 2019 and now roasts two tons of single-origin coffee a month.">
</head>
<body>
    <nav><a href="/">Home</a> <a href="/about">About</a></nav>
    <main>
        <h1>About Lumon Coffee</h1>
        <p>We started roasting in a garage in 2019. Today we roast about two tons a month, still in small batches, still shipped the day after roasting.</p>
    </main>
</body>
</html>`},
		},
	}
}

func llmsTxtPage() PageDefinition {
	return PageDefinition{
		Path:        "/llms.txt",
		Description: "llms.txt, present only at level 3",
		Levels: map[int]PageVersion{
			3: {ContentType: "text/plain", Body: `# Lumon Coffee

> Lumon Coffee is a small roastery that roasts single-origin beans to order and ships them within 24 hours of roasting.

## Key Pages

- [Home](http://localhost:9999/): Fresh-roasted beans, delivered fast
- [About](http://localhost:9999/about): How the roastery started and how it works today
`},
		},
	}
}

func robotsPage() PageDefinition {
	return PageDefinition{
		Path:        "/robots.txt",
		Description: "robots.txt, blocks AI crawlers below level 2",
		Levels: map[int]PageVersion{
			1: {ContentType: "text/plain", Body: `User-agent: GPTBot
Disallow: /

User-agent: *
Allow: /
`},
			2: {ContentType: "text/plain", Body: `User-agent: *
Allow: /

Sitemap: http://localhost:9999/sitemap.xml
`},
		},
	}
}

func sitemapPage() PageDefinition {
	return PageDefinition{
		Path:        "/sitemap.xml",
		Description: "Sitemap, present from level 2",
		Levels: map[int]PageVersion{
			2: {ContentType: "application/xml", Body: `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>http://localhost:9999/</loc></url>
  <url><loc>http://localhost:9999/about</loc></url>
</urlset>`},
		},
	}
}
