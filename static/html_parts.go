package static

var (
	Part1 = `
    <!DOCTYPE html>
    <html>
    <head>
        <title>Линеаменты</title>
		<style>
			:root {
				--bg: #1f1f1f;
				--panel: #262626;
				--field: #2b2b2b;
				--edge: #444;
				--text: #d3d3d3;
			}

			body {
				margin: 0;
				background: var(--bg);
				color: var(--text);
				font-family: Consolas, monospace;
				overflow: hidden;
			}

			/* график и форма слева, логи справа */
			#container {
				display: grid;
				grid-template-columns: 3fr 2fr;
				height: 100vh;
			}

			#left-container, #right-container {
				padding: 12px;
				box-sizing: border-box;
				overflow: auto;
			}

			#right-container {
				background: var(--panel);
				border-left: 4px solid #757575;
			}

			#logs {
				white-space: pre-wrap;
				word-break: break-word;
				font-size: 13px;
			}

			h1, label {
				color: var(--text);
			}

			h1 {
				font-size: 22px;
				margin: 4px 0 12px;
			}

			form {
				margin-bottom: 12px;
				line-height: 2.2;
			}

			input[type="number"],
			input[type="checkbox"],
			input[type="submit"] {
				background: var(--field);
				color: var(--text);
				border: 1px solid var(--edge);
				border-radius: 4px;
				padding: 4px;
			}

			input[type="number"] {
				width: 80px;
				margin-right: 10px;
			}

			input[type="checkbox"] {
				accent-color: #757575;
				vertical-align: middle;
			}

			input[type="submit"]:hover {
				background: var(--edge);
				cursor: pointer;
			}

			::-webkit-scrollbar {
				width: 8px;
			}

			::-webkit-scrollbar-thumb {
				background: var(--edge);
				border-radius: 10px;
			}

			::-webkit-scrollbar-track {
				background: var(--field);
			}
        </style>
    </head>
    <body>
        <div id="container">
            <div id="left-container">
                <h1>Линеаменты по облаку точек</h1>
    `

	// Form is an html/template executed with the parameters of the current run.
	Form = `
                <form id="diagram-form" method="POST">
                    <label for="lines">Линий на метку:</label>
                    <input type="number" id="lines" name="lines" value="{{.Lines}}" min="1" max="50">
                    <label for="points">Точек на линию:</label>
                    <input type="number" id="points" name="points" value="{{.Points}}" min="2" max="500">
                    <label for="labels">Меток:</label>
                    <input type="number" id="labels" name="labels" value="{{.Labels}}" min="1" max="20"><br>
                    <label for="noise">Шум:</label>
                    <input type="number" id="noise" name="noise" value="{{.Noise}}" min="0" max="100" step="0.1">
                    <label for="clutter">Случайных точек:</label>
                    <input type="number" id="clutter" name="clutter" value="{{.Clutter}}" min="0" max="5000"><br>
                    <label for="damping">Демпфирование:</label>
                    <input type="number" id="damping" name="damping" value="{{.Damping}}" min="0" max="1" step="0.05">
                    <label for="min_edges">Мин. рёбер:</label>
                    <input type="number" id="min_edges" name="min_edges" value="{{.MinEdges}}" min="1" max="100">
                    <label for="max_distance">Макс. длина:</label>
                    <input type="number" id="max_distance" name="max_distance" value="{{.MaxDistance}}" min="0" step="any"><br>
                    <label for="azimuth">Азимут:</label>
                    <input type="number" id="azimuth" name="azimuth" value="{{.Azimuth}}" min="0" max="360" step="any">
                    <label for="azimuth_tol">Допуск:</label>
                    <input type="number" id="azimuth_tol" name="azimuth_tol" value="{{.AzimuthTol}}" min="0" max="180" step="any"><br>
                    <label for="random">Случайная сетка:</label>
                    <input type="checkbox" id="random" name="random" value="true" {{if .Random}}checked{{end}}>
                    <label for="voronoi">Вороной:</label>
                    <input type="checkbox" id="voronoi" name="voronoi" value="true" {{if .Voronoi}}checked{{end}}><br><br>
                    <input type="submit" value="Построить">
                </form>
    `

	Part2 = `
            </div>
            <div id="right-container">
                <h1>Логи</h1>
                <div id="logs">`

	Part3 = `
                </div>
            </div>
        </div>

        <script>
            // форма отправляется без перезагрузки, ответ заменяет страницу целиком
            const form = document.getElementById('diagram-form');
            form.addEventListener('submit', async (e) => {
                e.preventDefault();
                const submit = form.querySelector('input[type="submit"]');
                submit.disabled = true;
                try {
                    const resp = await fetch('/', {
                        method: 'POST',
                        body: new URLSearchParams(new FormData(form)),
                    });
                    if (!resp.ok) {
                        throw new Error('сервер ответил ' + resp.status);
                    }
                    const html = await resp.text();
                    document.open();
                    document.write(html);
                    document.close();
                } catch (err) {
                    console.error('Ошибка:', err);
                    submit.disabled = false;
                }
            });
        </script>
    </body>
    </html>
    `
)
