package rod

const (
	searchFormHTML = `<!DOCTYPE html>
<html>
<head><title>Search Shop</title></head>
<body>
	<form id="f" action="/results" method="get">
		<input id="q" type="search" name="q" placeholder="Search products" />
		<button id="go" type="submit">Search</button>
	</form>
	<label><input id="remember" type="checkbox" checked /> Remember me</label>
</body>
</html>`

	resultsHTML = `<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body>
	<h1>Results</h1>
	<ul><li><a href="/item/1">Running shoes</a></li></ul>
</body>
</html>`
)
