package quiz

// ExampleCSV is the downloadable sample quiz served by the HTTP API so admins
// can see the expected column layout before writing their own file.
const ExampleCSV = `Tipo;Pregunta;R1;R2;R3;R4;Tiempo;Correcta;URL Imagen
quiz;¿Qué operador repite cadenas en Python?;*;x;repeat();**;30;1;
quiz;¿Qué método especial se ejecuta al crear un objeto?;__init__;__start__;constructor;__new__;30;1;
quiz;¿Qué operador concatena cadenas en Python?;+;concat();join;.;30;1;
quiz;¿Cómo se escribe un comentario de una línea en Python?;#;//;--;/*;20;1;
quiz;¿Sobre qué itera normalmente un bucle for en Python?;Secuencias;Solo números;Condiciones booleanas;Solo cadenas;30;1;
quiz;¿Qué palabra clave define una función en Python?;def;function;func;define;20;1;
quiz;¿Qué estructura de datos almacena pares clave-valor?;Diccionario;Lista;Tupla;Conjunto;30;1;
quiz;¿Qué operador realiza división entera en Python?;//;/;div;%;30;1;
quiz;¿Qué significa elif en Python?;Else if;Else en if;End if;If else;30;1;
quiz;¿Qué tipo de dato devuelve input()?;Cadena;Entero;Depende;Lista de caracteres;30;1;
`
